package image

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

// Encode writes the pixels to w as a width by height PNG image.
func Encode(w io.Writer, width, height int, pixels []color.NRGBA) error {
	m, err := newNRGBA(width, height, pixels)
	if err != nil {
		return err
	}
	return png.Encode(w, m)
}

// EncodePaletted writes the pixels to w as a paletted PNG image using no more
// than colors distinct colors. The palette is chosen by median cut.
func EncodePaletted(w io.Writer, width, height int, pixels []color.NRGBA, colors int) error {
	if colors < 1 || colors > 256 {
		return errors.New("image: palette size must be between 1 and 256")
	}

	m, err := newNRGBA(width, height, pixels)
	if err != nil {
		return err
	}
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return png.Encode(w, pm)
}

func writeFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// WritePNG writes the pixels to file as a width by height PNG image,
// replacing any existing file.
func WritePNG(file string, width, height int, pixels []color.NRGBA) error {
	return writeFile(file, func(w io.Writer) error {
		return Encode(w, width, height, pixels)
	})
}

// WritePalettedPNG is like WritePNG but reduces the image to at most colors
// colors first.
func WritePalettedPNG(file string, width, height int, pixels []color.NRGBA, colors int) error {
	return writeFile(file, func(w io.Writer) error {
		return EncodePaletted(w, width, height, pixels, colors)
	})
}

// Resize scales the pixels up by an integer factor using nearest neighbour
// sampling, returning the new dimensions and pixels.
func Resize(width, height int, pixels []color.NRGBA, scale int) (int, int, []color.NRGBA, error) {
	if scale < 1 {
		return 0, 0, nil, errors.New("image: scale must be at least 1")
	}

	m, err := newNRGBA(width, height, pixels)
	if err != nil {
		return 0, 0, nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width*scale, height*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), m, m.Bounds(), xdraw.Src, nil)

	w, h, p := pixelsOf(dst)
	return w, h, p, nil
}
