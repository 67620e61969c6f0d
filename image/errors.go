package image

import (
	"errors"
)

var (
	ErrorFormat = errors.New("Invalid or unsupported Image Format")
)
