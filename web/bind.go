package web

import (
	"net/http"
	"strings"

	"github.com/go-playground/form"

	"github.com/roljohntorralba/imgopt/config"
	"github.com/roljohntorralba/imgopt/optimize"
)

var (
	formDecoder = form.NewDecoder()
)

// Bind ...
func Bind(req *http.Request, obj interface{}) error {
	if err := req.ParseForm(); err != nil {
		return err
	}
	req.ParseMultipartForm(32 << 10) // 32 MB
	if err := formDecoder.Decode(obj, req.Form); err != nil {
		return err
	}
	return nil
}

type jobSchema struct {
	SrcDir      string `form:"src_dir"`
	Formats     string `form:"formats"`
	Quality     uint8  `form:"quality"`
	WebpQuality uint8  `form:"webp_quality"`
	AvifQuality uint8  `form:"avif_quality"`
	MaxWidth    uint   `form:"max_width"`
	MaxHeight   uint   `form:"max_height"`
	Lossless    bool   `form:"lossless"`
	KeepAlpha   bool   `form:"keep_alpha"`
	AvifSpeed   int    `form:"avif_speed"`
}

// job builds the conversion job the schema describes. Missing fields
// fall back to the process settings.
func (s *jobSchema) job() (*optimize.Job, error) {
	names := s.Formats
	if names == "" {
		names = strings.Join(config.Current.Formats, ",")
	}
	formats, err := optimize.ParseFormats(names)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return nil, optimize.ErrNoOutputs
	}

	outputs := make([]optimize.Output, 0, len(formats))
	for _, f := range formats {
		q := s.Quality
		switch f {
		case optimize.FmtWEBP:
			if s.WebpQuality > 0 {
				q = s.WebpQuality
			}
			if q == 0 {
				q = config.Current.WebpQuality
			}
		case optimize.FmtAVIF:
			if s.AvifQuality > 0 {
				q = s.AvifQuality
			}
			if q == 0 {
				q = config.Current.AvifQuality
			}
		}
		outputs = append(outputs, optimize.Output{
			Format:    f,
			Quality:   q,
			Lossless:  s.Lossless,
			KeepAlpha: s.KeepAlpha,
		})
	}

	job := optimize.NewJob(s.SrcDir, outputs...)
	job.MaxWidth = s.MaxWidth
	job.MaxHeight = s.MaxHeight
	job.AvifSpeed = s.AvifSpeed
	if job.MaxWidth == 0 {
		job.MaxWidth = config.Current.MaxWidth
	}
	if job.MaxHeight == 0 {
		job.MaxHeight = config.Current.MaxHeight
	}
	if job.AvifSpeed == 0 {
		job.AvifSpeed = config.Current.AvifSpeed
	}
	return job, nil
}
