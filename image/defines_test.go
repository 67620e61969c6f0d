package image

import (
	"bytes"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestGuessType(t *testing.T) {
	m := newFill(8, 8, color.White)

	assert.Equal(t, TYPE_PNG, GuessType(encPNG(t, m)))
	assert.Equal(t, TYPE_JPEG, GuessType(encJPEG(t, m)))

	var buf bytes.Buffer
	assert.NoError(t, gif.Encode(&buf, m, nil))
	assert.Equal(t, TYPE_GIF, GuessType(buf.Bytes()))

	buf.Reset()
	assert.NoError(t, bmp.Encode(&buf, m))
	assert.Equal(t, TYPE_BMP, GuessType(buf.Bytes()))

	buf.Reset()
	assert.NoError(t, tiff.Encode(&buf, m, nil))
	assert.Equal(t, TYPE_TIFF, GuessType(buf.Bytes()))

	buf.Reset()
	_, err := SaveTo(&buf, m, WriteOption{Format: "webp", Quality: 75})
	assert.NoError(t, err)
	assert.Equal(t, TYPE_WEBP, GuessType(buf.Bytes()))

	assert.Equal(t, TYPE_AVIF, GuessType([]byte("\x00\x00\x00\x20ftypavif....")))
	assert.Equal(t, TYPE_NONE, GuessType([]byte("neither a raster")))
	assert.Equal(t, TYPE_NONE, GuessType(nil))
}

func TestExtByType(t *testing.T) {
	for it, ext := range map[TypeID]string{
		TYPE_GIF:  ".gif",
		TYPE_JPEG: ".jpg",
		TYPE_PNG:  ".png",
		TYPE_BMP:  ".bmp",
		TYPE_TIFF: ".tiff",
		TYPE_WEBP: ".webp",
		TYPE_AVIF: ".avif",
		TYPE_NONE: "",
	} {
		assert.Equal(t, ext, ExtByType(it))
	}
	assert.Equal(t, "webp", TYPE_WEBP.String())
	assert.Equal(t, "none", TYPE_NONE.String())
}

func TestGuessTypeFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a.png")
	assert.NoError(t, os.WriteFile(name, encPNG(t, newFill(4, 4, color.White)), 0644))

	it, err := GuessTypeFile(name)
	assert.NoError(t, err)
	assert.Equal(t, TYPE_PNG, it)

	_, err = GuessTypeFile(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}
