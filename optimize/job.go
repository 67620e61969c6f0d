package optimize

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roljohntorralba/imgopt/utils"
)

var (
	ErrNoSource  = errors.New("no source folder selected")
	ErrNoOutputs = errors.New("no output format selected")
)

// Output is one encode target of a job.
type Output struct {
	Format    Format `json:"format"`
	Quality   uint8  `json:"quality,omitempty"`
	Lossless  bool   `json:"lossless,omitempty"`
	KeepAlpha bool   `json:"keep_alpha,omitempty"`
}

// Job describes one pass over a folder tree.
type Job struct {
	ID        string   `json:"id"`
	SrcDir    string   `json:"src_dir"`
	Outputs   []Output `json:"outputs"`
	MaxWidth  uint     `json:"max_width,omitempty"`
	MaxHeight uint     `json:"max_height,omitempty"`
	AvifSpeed int      `json:"avif_speed,omitempty"`
}

// NewJob ...
func NewJob(srcDir string, outputs ...Output) *Job {
	return &Job{
		ID:      uuid.NewString(),
		SrcDir:  srcDir,
		Outputs: outputs,
	}
}

// Validate checks the job before it runs.
func (j *Job) Validate() error {
	if j.SrcDir == "" {
		return ErrNoSource
	}
	if !utils.IsDir(j.SrcDir) {
		return fmt.Errorf("source %q is not a directory", j.SrcDir)
	}
	if len(j.Outputs) == 0 {
		return ErrNoOutputs
	}
	for _, o := range j.Outputs {
		if o.Format.String() == "" {
			return fmt.Errorf("unknown format %d", o.Format)
		}
		if o.Quality > 100 {
			return fmt.Errorf("quality %d out of range 1-100", o.Quality)
		}
	}
	return nil
}
