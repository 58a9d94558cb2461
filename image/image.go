/*
Package image writes flat RGBA pixel buffers as PNG images.

Pixels are passed as a row-major slice of color.NRGBA values, one per pixel,
so a width by height image is described by exactly width*height values. The
non-premultiplied form is used so that any pixel written can be read back
unchanged.
*/
package image

import (
	"errors"
	"image"
	"image/color"
)

var errDimensions = errors.New("image: pixel data does not match dimensions")

func newNRGBA(width, height int, pixels []color.NRGBA) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return nil, errDimensions
	}

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, c := range pixels {
		m.SetNRGBA(i%width, i/width, c)
	}
	return m, nil
}

func pixelsOf(m image.Image) (int, int, []color.NRGBA) {
	b := m.Bounds()
	pixels := make([]color.NRGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA))
		}
	}
	return b.Dx(), b.Dy(), pixels
}
