package image

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// TypeID is a sniffed raster format.
type TypeID int

const (
	TYPE_NONE TypeID = iota
	TYPE_GIF
	TYPE_JPEG
	TYPE_PNG
	TYPE_BMP
	TYPE_TIFF
	TYPE_WEBP
	TYPE_AVIF
)

const (
	SIG_GIF = "GIF8"
	SIG_JPG = "\xff\xd8\xff"
	// SIG_PNG = "\x89\x50\x4e\x47\x0d\x0a\x1a\x0a"
	SIG_PNG     = "\211PNG\r\n\032\n"
	SIG_BMP     = "BM"
	SIG_TIFF_II = "II\x2a\x00"
	SIG_TIFF_MM = "MM\x00\x2a"
	SIG_RIFF    = "RIFF"
	SIG_WEBP    = "WEBP" // bytes 8..12 of the RIFF container
	SIG_FTYP    = "ftyp" // bytes 4..8 of an ISO media box
)

func (t TypeID) String() string {
	switch t {
	case TYPE_GIF:
		return "gif"
	case TYPE_JPEG:
		return "jpeg"
	case TYPE_PNG:
		return "png"
	case TYPE_BMP:
		return "bmp"
	case TYPE_TIFF:
		return "tiff"
	case TYPE_WEBP:
		return "webp"
	case TYPE_AVIF:
		return "avif"
	}
	return "none"
}

// GuessType sniffs the format from the leading bytes of data.
func GuessType(data []byte) TypeID {
	if bytes.HasPrefix(data, []byte(SIG_GIF)) {
		return TYPE_GIF
	}

	if bytes.HasPrefix(data, []byte(SIG_JPG)) {
		return TYPE_JPEG
	}

	if bytes.HasPrefix(data, []byte(SIG_PNG)) {
		return TYPE_PNG
	}

	if bytes.HasPrefix(data, []byte(SIG_TIFF_II)) || bytes.HasPrefix(data, []byte(SIG_TIFF_MM)) {
		return TYPE_TIFF
	}

	if bytes.HasPrefix(data, []byte(SIG_BMP)) {
		return TYPE_BMP
	}

	if len(data) >= 12 {
		if bytes.HasPrefix(data, []byte(SIG_RIFF)) && string(data[8:12]) == SIG_WEBP {
			return TYPE_WEBP
		}
		if string(data[4:8]) == SIG_FTYP {
			switch string(data[8:12]) {
			case "avif", "avis":
				return TYPE_AVIF
			}
		}
	}

	return TYPE_NONE
}

func ExtByType(it TypeID) string {
	switch it {
	case TYPE_GIF:
		return ".gif"
	case TYPE_JPEG:
		return ".jpg"
	case TYPE_PNG:
		return ".png"
	case TYPE_BMP:
		return ".bmp"
	case TYPE_TIFF:
		return ".tiff"
	case TYPE_WEBP:
		return ".webp"
	case TYPE_AVIF:
		return ".avif"
	default:
		return ""
	}
}

const _head_size = 16

// A reader is an io.Reader that can also peek ahead.
type reader interface {
	io.Reader
	Peek(int) ([]byte, error)
}

// asReader converts an io.Reader to a reader.
func asReader(r io.Reader) reader {
	if rr, ok := r.(reader); ok {
		return rr
	}
	return bufio.NewReader(r)
}

func readHeadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := bufio.NewReaderSize(file, _head_size)
	return readHead(r)
}

func readHead(r io.Reader) ([]byte, error) {
	rr := asReader(r)
	return rr.Peek(_head_size)
}

// GuessTypeFile sniffs the format of a file on disk.
func GuessTypeFile(filename string) (TypeID, error) {
	head, err := readHeadFile(filename)
	if err != nil && len(head) == 0 {
		return TYPE_NONE, err
	}
	return GuessType(head), nil
}
