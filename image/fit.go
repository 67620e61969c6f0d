package image

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// FitOption bounds a raster box. A zero axis is unconstrained.
type FitOption struct {
	MaxWidth, MaxHeight uint
}

func (fopt FitOption) String() string {
	return fmt.Sprintf("max %dx%d", fopt.MaxWidth, fopt.MaxHeight)
}

// Zero reports whether no axis is constrained.
func (fopt FitOption) Zero() bool {
	return fopt.MaxWidth == 0 && fopt.MaxHeight == 0
}

// calc returns the box ow x oh scaled down to fit, keeping aspect.
// A result equal to the origin means no scaling is needed.
func (fopt *FitOption) calc(ow, oh uint) (w, h uint) {
	w, h = ow, oh
	if ow == 0 || oh == 0 {
		return
	}

	var ratio float32 = 1
	if fopt.MaxWidth > 0 && fopt.MaxHeight > 0 {
		ratioX := float32(fopt.MaxWidth) / float32(ow)
		ratioY := float32(fopt.MaxHeight) / float32(oh)
		if ratioX < ratioY {
			ratio = ratioX
		} else {
			ratio = ratioY
		}
	} else if fopt.MaxWidth > 0 {
		ratio = float32(fopt.MaxWidth) / float32(ow)
	} else if fopt.MaxHeight > 0 {
		ratio = float32(fopt.MaxHeight) / float32(oh)
	}

	if ratio >= 1 {
		return
	}

	w = uint(float32(ow) * ratio)
	h = uint(float32(oh) * ratio)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return
}

// FitDown shrinks m to fit fopt, never enlarging. The second result
// reports whether scaling happened.
func FitDown(m image.Image, fopt FitOption) (image.Image, bool) {
	ob := m.Bounds()
	ow := uint(ob.Dx())
	oh := uint(ob.Dy())

	w, h := fopt.calc(ow, oh)
	if w == ow && h == oh {
		return m, false
	}

	return resize.Resize(w, h, m, resize.Lanczos3), true
}
