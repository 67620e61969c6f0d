package image

import (
	"image"
	"image/color"
	"image/draw"
)

// Flatten composites any transparency onto a white background.
// Opaque rasters come back unchanged.
func Flatten(m image.Image) image.Image {
	if isOpaque(m) {
		return m
	}

	b := m.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, m, b.Min, draw.Over)
	return dst
}

func isOpaque(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
