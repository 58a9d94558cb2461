package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const bindingPrefix = "Binding"

// ParseError records a palette value that could not be converted to integers.
type ParseError struct {
	Line int
	Key  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mapfile: line %d: invalid value for %q: %v", e.Line, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type category int

const (
	categoryIgnore category = iota
	categoryPalette
	categoryBinding
)

// classify decides what a key defines. For palette keys the kind is returned;
// for well-formed binding keys the kind and bound name.
func classify(key string) (category, Kind, string) {
	switch {
	case strings.HasPrefix(key, "Texture"):
		return categoryPalette, Texture, ""
	case strings.HasPrefix(key, "Collider"):
		return categoryPalette, Collider, ""
	case strings.HasPrefix(key, "Trigger"):
		return categoryPalette, Trigger, ""
	case strings.HasPrefix(key, bindingPrefix):
		parts := strings.Split(key, ":")
		if len(parts) != 3 || strings.TrimSpace(parts[0]) != bindingPrefix {
			return categoryIgnore, 0, ""
		}
		kind, ok := ParseKind(strings.TrimSpace(parts[1]))
		if !ok {
			return categoryIgnore, 0, ""
		}
		name := strings.TrimSpace(parts[2])
		if name == "" {
			return categoryIgnore, 0, ""
		}
		return categoryBinding, kind, name
	}
	return categoryIgnore, 0, ""
}

func splitValue(value string) []string {
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	fields := strings.Split(value, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseTuple(fields []string) (Tuple, error) {
	t := make(Tuple, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		t[i] = n
	}
	return t, nil
}

type decoder struct {
	r    *bufio.Reader
	b    Builder
	line int
}

func (d *decoder) decodeLine(line string) error {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return nil
	}
	key := strings.TrimSpace(line[:i])
	fields := splitValue(strings.TrimSpace(line[i+1:]))

	cat, kind, name := classify(key)
	switch cat {
	case categoryPalette:
		t, err := parseTuple(fields)
		if err != nil {
			return &ParseError{Line: d.line, Key: key, Err: err}
		}
		d.b.Set(kind, key, t)
	case categoryBinding:
		// Only the first token of the value is kept
		d.b.Bind(kind, name, fields[0])
	}
	return nil
}

// decode reads r a line at a time with no limit on line length.
func (d *decoder) decode(r io.Reader) error {
	d.r = bufio.NewReader(r)

	for {
		line, err := d.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if len(line) > 0 {
			d.line++
			if err := d.decodeLine(line); err != nil {
				return err
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// Parse reads a map definition from r.
func Parse(r io.Reader) (*Definition, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return d.b.Definition(), nil
}

// ParseFile reads the map definition stored in file. Errors opening the file
// are returned unchanged.
func ParseFile(file string) (*Definition, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
