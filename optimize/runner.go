package optimize

import (
	"context"
	"fmt"
	"time"

	zlog "github.com/roljohntorralba/imgopt/log"
)

func logger() zlog.Logger {
	return zlog.Get()
}

const progressEvery = 10

// Summary totals one finished job.
type Summary struct {
	Total     int           `json:"total"`
	Converted int           `json:"converted"`
	Failed    int           `json:"failed"`
	BytesIn   int64         `json:"bytes_in"`
	BytesOut  int64         `json:"bytes_out"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Runner executes one job at a time.
type Runner struct {
	Sink Sink
}

func (r *Runner) emit(ev Event) {
	if r.Sink != nil {
		r.Sink <- ev
	}
}

// Run scans job.SrcDir and converts every image found, one after
// another. A failed file is reported and skipped, the rest of the run
// goes on. Cancellation via ctx takes effect between files. When a
// sink is set it is closed before Run returns.
func (r *Runner) Run(ctx context.Context, job *Job) (sum *Summary, err error) {
	if r.Sink != nil {
		defer close(r.Sink)
	}

	if err = job.Validate(); err != nil {
		r.emit(Event{Kind: EvError, Message: err.Error()})
		return nil, err
	}

	start := time.Now()
	tasks, err := Scan(job.SrcDir)
	if err != nil {
		r.emit(Event{Kind: EvError, Message: err.Error()})
		return nil, err
	}

	sum = &Summary{Total: len(tasks)}
	logger().Infow("job start", "id", job.ID, "src", job.SrcDir, "total", sum.Total)
	r.emit(Event{Kind: EvLog, Message: fmt.Sprintf("Found %d images to process", sum.Total), Total: sum.Total})

	for i, ft := range tasks {
		select {
		case <-ctx.Done():
			sum.Elapsed = time.Since(start)
			logger().Infow("job cancelled", "id", job.ID, "done", i, "total", sum.Total)
			r.emit(Event{Kind: EvLog, Message: "Processing cancelled", Done: i, Total: sum.Total})
			return sum, ctx.Err()
		default:
		}

		if cerr := r.convert(job, ft, sum); cerr != nil {
			sum.Failed++
			logger().Warnw("convert fail", "file", ft.Rel, "err", cerr)
			r.emit(Event{Kind: EvError, Message: cerr.Error(), File: ft.Rel, Done: i + 1, Total: sum.Total})
		} else {
			sum.Converted++
		}

		if done := i + 1; done%progressEvery == 0 || done == sum.Total {
			r.emit(Event{Kind: EvProgress, Done: done, Total: sum.Total, File: ft.Rel})
		}
	}

	sum.Elapsed = time.Since(start)
	logger().Infow("job done", "id", job.ID,
		"total", sum.Total, "converted", sum.Converted, "failed", sum.Failed,
		"bytesIn", sum.BytesIn, "bytesOut", sum.BytesOut, "elapsed", sum.Elapsed)
	r.emit(Event{
		Kind:    EvDone,
		Message: fmt.Sprintf("Processing complete! %d images processed", sum.Converted),
		Done:    sum.Total,
		Total:   sum.Total,
	})
	return sum, nil
}
