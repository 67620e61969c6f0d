package image

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenPNG(t *testing.T) {
	data := encPNG(t, newFill(150, 100, color.RGBA{R: 9, G: 99, B: 199, A: 255}))

	im, err := Open(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.NotNil(t, im)
	assert.NotNil(t, im.Attr)
	assert.Equal(t, 150, int(im.Attr.Width))
	assert.Equal(t, 100, int(im.Attr.Height))
	assert.Equal(t, ".png", im.Attr.Ext)
	assert.Equal(t, "image/png", im.Attr.Mime)
	assert.Equal(t, len(data), int(im.Attr.Size))

	meta := im.Attr.ToMap()
	assert.NotNil(t, meta)
	assert.Equal(t, ".png", meta["ext"])
}

func TestOpenJPEG(t *testing.T) {
	data := encJPEG(t, newFill(60, 40, color.RGBA{R: 120, G: 120, B: 120, A: 255}))

	im, err := Open(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, ".jpg", im.Attr.Ext)
	assert.Equal(t, "image/jpeg", im.Attr.Mime)
	assert.Equal(t, 60, int(im.Attr.Width))
	assert.Equal(t, 40, int(im.Attr.Height))
}

func TestOpenBad(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("this is not a raster at all")))
	assert.Equal(t, ErrorFormat, err)

	_, err = Open(bytes.NewReader(nil))
	assert.Equal(t, ErrorFormat, err)
}

func TestOpenFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pic.png")
	assert.NoError(t, os.WriteFile(name, encPNG(t, newFill(5, 7, color.White)), 0644))

	im, err := OpenFile(name)
	assert.NoError(t, err)
	assert.Equal(t, "pic.png", im.Attr.Name)
	assert.Equal(t, 5, int(im.Attr.Width))
	assert.Equal(t, 7, int(im.Attr.Height))

	_, err = OpenFile(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}

func TestSaveToWebp(t *testing.T) {
	im, err := Open(bytes.NewReader(encPNG(t, newFill(150, 100, color.RGBA{R: 250, G: 10, B: 10, A: 255}))))
	assert.NoError(t, err)

	var buf bytes.Buffer
	n, err := im.SaveTo(&buf, WriteOption{Format: "webp", Quality: 75})
	assert.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, TYPE_WEBP, GuessType(buf.Bytes()))

	m, format, err := image.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, 150, m.Bounds().Dx())
	assert.Equal(t, 100, m.Bounds().Dy())
}

func TestSaveToJpegPng(t *testing.T) {
	m := newFill(30, 30, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	n, err := SaveTo(&buf, m, WriteOption{Format: ".jpg", Quality: 85})
	assert.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, TYPE_JPEG, GuessType(buf.Bytes()))

	buf.Reset()
	n, err = SaveTo(&buf, m, WriteOption{Format: "png"})
	assert.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, TYPE_PNG, GuessType(buf.Bytes()))

	buf.Reset()
	_, err = SaveTo(&buf, m, WriteOption{Format: "xpm"})
	assert.Equal(t, ErrorFormat, err)
}

func TestSaveToAvif(t *testing.T) {
	var buf bytes.Buffer
	n, err := SaveTo(&buf, newFill(16, 16, color.White), WriteOption{Format: "avif", Quality: 80, Speed: 8})
	assert.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, TYPE_AVIF, GuessType(buf.Bytes()))
}

func TestAvifQuantizer(t *testing.T) {
	assert.Equal(t, 0, avifQuantizer(100))
	assert.Equal(t, 63, avifQuantizer(1))
	assert.Equal(t, 12, avifQuantizer(80))

	assert.Equal(t, 0, avifSpeed(-3))
	assert.Equal(t, 8, avifSpeed(11))
	assert.Equal(t, 6, avifSpeed(6))
}

func TestExt2Format(t *testing.T) {
	assert.Equal(t, "jpeg", Ext2Format(".jpg"))
	assert.Equal(t, "jpeg", Ext2Format("jpg"))
	assert.Equal(t, "jpeg", Ext2Format("JPEG"))
	assert.Equal(t, "tiff", Ext2Format(".tif"))
	assert.Equal(t, "webp", Ext2Format(".webp"))
	assert.Equal(t, "avif", Ext2Format("avif"))
}
