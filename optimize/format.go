package optimize

import (
	"fmt"
	"strings"
)

// Format is a target encoding.
type Format uint8

const (
	FmtWEBP Format = iota + 1
	FmtAVIF
)

// ParseFormat ...
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FmtWEBP, nil
	case "avif":
		return FmtAVIF, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// ParseFormats parses a comma separated format list, dropping repeats.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func (f Format) String() string {
	switch f {
	case FmtWEBP:
		return "webp"
	case FmtAVIF:
		return "avif"
	}
	return ""
}

// Ext returns the output file extension.
func (f Format) Ext() string {
	switch f {
	case FmtWEBP:
		return ".webp"
	case FmtAVIF:
		return ".avif"
	}
	return ""
}

// DirName returns the output folder name under the source root.
func (f Format) DirName() string {
	return f.String()
}
