package image

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// Decode reads an image in any registered format from r and returns its
// dimensions and row-major pixels.
func Decode(r io.Reader) (int, int, []color.NRGBA, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return 0, 0, nil, err
	}
	width, height, pixels := pixelsOf(m)
	return width, height, pixels, nil
}

// ReadFile decodes the image stored in file.
func ReadFile(file string) (int, int, []color.NRGBA, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, nil, err
	}
	defer f.Close()

	return Decode(f)
}
