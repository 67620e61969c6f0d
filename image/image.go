package image

import (
	"bytes"
	"image"
	_ "image/gif"
	"io"
	"mime"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Image is a decoded raster plus its source attributes.
type Image struct {
	m image.Image

	Attr *Attr
}

// Origin returns the decoded raster.
func (im *Image) Origin() image.Image {
	return im.m
}

// Open sniffs, decodes and measures a raster image.
func Open(r io.Reader) (*Image, error) {
	var size Size
	switch rr := r.(type) {
	case *os.File:
		if fi, err := rr.Stat(); err == nil {
			size = Size(fi.Size())
		}
	case *bytes.Reader:
		size = Size(rr.Len())
	}

	rr := asReader(r)
	head, _ := rr.Peek(_head_size)
	t := GuessType(head)
	if t == TYPE_NONE {
		return nil, ErrorFormat
	}

	m, _, err := image.Decode(rr)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	ext := ExtByType(t)
	ia := NewAttr(uint(b.Dx()), uint(b.Dy()), 0)
	ia.Ext = ext
	ia.Mime = mime.TypeByExtension(ext)
	ia.Size = size

	return &Image{m: m, Attr: ia}, nil
}

// OpenFile decodes a raster image from disk.
func OpenFile(filename string) (*Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, err := Open(f)
	if err != nil {
		return nil, err
	}
	im.Attr.Name = filepath.Base(filename)
	return im, nil
}

// SaveTo encodes the raster into w.
func (im *Image) SaveTo(w io.Writer, opt WriteOption) (int, error) {
	return SaveTo(w, im.m, opt)
}
