package mapfile

// Kind identifies one of the three palette categories.
type Kind int

const (
	Texture Kind = iota + 1
	Collider
	Trigger
)

var kindNames = map[Kind]string{
	Texture:  "Texture",
	Collider: "Collider",
	Trigger:  "Trigger",
}

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{Texture, Collider, Trigger}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseKind returns the Kind named exactly s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
