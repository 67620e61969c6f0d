package image

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	avif "github.com/Kagami/go-avif"
	"github.com/chai2010/webp"
)

const (
	MinQuality     Quality = 1
	MaxQuality     Quality = 100
	DefaultQuality Quality = 80

	DefaultAvifSpeed = 6
)

// WriteOption controls encoding.
type WriteOption struct {
	Format   string
	Quality  Quality
	Lossless bool
	Speed    int // avif encoder effort, 0..8
}

// Ext2Format maps a file extension onto an encode format name.
func Ext2Format(ext string) string {
	f := strings.ToLower(strings.TrimPrefix(ext, "."))
	switch f {
	case "jpg", "jpe":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}

// SaveTo encodes m into w per opt and returns the written size.
func SaveTo(w io.Writer, m image.Image, opt WriteOption) (int, error) {
	q := opt.Quality
	if q < MinQuality || q > MaxQuality {
		q = DefaultQuality
	}

	cw := new(CountWriter)
	mw := io.MultiWriter(w, cw)

	var err error
	switch Ext2Format(opt.Format) {
	case "webp":
		err = webp.Encode(mw, m, &webp.Options{Lossless: opt.Lossless, Quality: float32(q)})
	case "avif":
		err = avif.Encode(mw, m, &avif.Options{Quality: avifQuantizer(q), Speed: avifSpeed(opt.Speed)})
	case "jpeg":
		err = jpeg.Encode(mw, m, &jpeg.Options{Quality: int(q)})
	case "png":
		err = png.Encode(mw, m)
	default:
		return 0, ErrorFormat
	}
	if err != nil {
		return 0, err
	}

	return cw.Len(), nil
}

// avifQuantizer maps quality 1..100 onto the aom 0..63 quantizer,
// where lower means better.
func avifQuantizer(q Quality) int {
	return (100 - int(q)) * avif.MaxQuality / 99
}

func avifSpeed(s int) int {
	if s < avif.MinSpeed {
		return avif.MinSpeed
	}
	if s > avif.MaxSpeed {
		return avif.MaxSpeed
	}
	return s
}
