package optimize

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	img "github.com/roljohntorralba/imgopt/image"
	"github.com/roljohntorralba/imgopt/utils"
)

// OutPath returns where the output for rel goes, mirroring the source
// layout under the per-format folder.
func OutPath(root, rel string, f Format) string {
	ext := filepath.Ext(rel)
	return filepath.Join(root, f.DirName(), strings.TrimSuffix(rel, ext)+f.Ext())
}

// ConvertOne converts a single known source file using the job's
// outputs. The hot folder mode feeds settled files here one by one.
func (r *Runner) ConvertOne(job *Job, ft FileTask) error {
	return r.convert(job, ft, new(Summary))
}

// convert decodes one source file and encodes every requested output,
// overwriting earlier results. It fails only when nothing could be
// written; a partially failed file is reported and kept.
func (r *Runner) convert(job *Job, ft FileTask, sum *Summary) error {
	im, err := img.OpenFile(ft.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", ft.Rel, err)
	}

	fopt := img.FitOption{MaxWidth: job.MaxWidth, MaxHeight: job.MaxHeight}

	var needFlat, needRaw bool
	for _, o := range job.Outputs {
		if o.KeepAlpha {
			needRaw = true
		} else {
			needFlat = true
		}
	}

	var flatM, rawM image.Image
	if needFlat {
		flatM, _ = img.FitDown(img.Flatten(im.Origin()), fopt)
	}
	if needRaw {
		rawM, _ = img.FitDown(im.Origin(), fopt)
	}

	var wrote int
	var firstErr error
	for _, o := range job.Outputs {
		m := flatM
		if o.KeepAlpha {
			m = rawM
		}

		wopt := img.WriteOption{
			Format:   o.Format.String(),
			Quality:  img.Quality(o.Quality),
			Lossless: o.Lossless,
		}
		if o.Format == FmtAVIF {
			wopt.Speed = job.AvifSpeed
			if wopt.Speed == 0 {
				wopt.Speed = img.DefaultAvifSpeed
			}
		}

		var buf bytes.Buffer
		n, werr := img.SaveTo(&buf, m, wopt)
		if werr == nil {
			werr = utils.SaveFile(OutPath(job.SrcDir, ft.Rel, o.Format), buf.Bytes())
		}
		if werr != nil {
			if firstErr == nil {
				firstErr = werr
			}
			logger().Warnw("encode fail", "file", ft.Rel, "format", o.Format, "err", werr)
			r.emit(Event{
				Kind:    EvLog,
				Message: fmt.Sprintf("%s failed for %s: %s", strings.ToUpper(o.Format.String()), ft.Rel, werr),
				File:    ft.Rel,
			})
			continue
		}
		sum.BytesOut += int64(n)
		wrote++
	}

	if wrote == 0 {
		if firstErr != nil {
			return fmt.Errorf("convert %s: %w", ft.Rel, firstErr)
		}
		return fmt.Errorf("convert %s: no output written", ft.Rel)
	}

	sum.BytesIn += int64(im.Attr.Size)
	logger().Debugw("converted", "file", ft.Rel, "outputs", wrote,
		"width", im.Attr.Width, "height", im.Attr.Height)
	return nil
}
