package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/roljohntorralba/imgopt/config"
	"github.com/roljohntorralba/imgopt/optimize"
)

var cmdRun = &Command{
	UsageLine: "run -s /path/to/images [-f webp,avif] [-wq 80] [-aq 80] [-mw 1920] [-mh 1080]",
	Short:     "convert a folder of images once",
	Long: `
Walks the source folder, shrinks every readable image into the given
bounds and writes WEBP/AVIF copies into mirrored webp/ and avif/
folders next to the originals. Already converted folders are skipped,
existing outputs are overwritten.
`,
}

// jobFlags are the conversion options shared by run and watch.
type jobFlags struct {
	src, formats string
	quality      uint
	wq, aq       uint
	mw, mh       uint
	speed        int
	lossless     bool
	keepAlpha    bool
}

func (jf *jobFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&jf.src, "s", "", "source folder")
	fs.StringVar(&jf.formats, "f", "", "output formats, comma separated (default from settings)")
	fs.UintVar(&jf.quality, "q", 0, "quality for every format (1-100)")
	fs.UintVar(&jf.wq, "wq", 0, "webp quality, overrides -q")
	fs.UintVar(&jf.aq, "aq", 0, "avif quality, overrides -q")
	fs.UintVar(&jf.mw, "mw", 0, "max width, 0 keeps the original width")
	fs.UintVar(&jf.mh, "mh", 0, "max height, 0 keeps the original height")
	fs.IntVar(&jf.speed, "avif-speed", 0, "avif encoder speed 0-8 (default from settings)")
	fs.BoolVar(&jf.lossless, "lossless", false, "lossless webp")
	fs.BoolVar(&jf.keepAlpha, "keep-alpha", false, "keep transparency instead of flattening onto white")
}

// job assembles the conversion job, falling back to the process
// settings for anything not given on the command line.
func (jf *jobFlags) job() (*optimize.Job, error) {
	names := jf.formats
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
		q := jf.quality
		switch f {
		case optimize.FmtWEBP:
			if jf.wq > 0 {
				q = jf.wq
			}
			if q == 0 {
				q = uint(config.Current.WebpQuality)
			}
		case optimize.FmtAVIF:
			if jf.aq > 0 {
				q = jf.aq
			}
			if q == 0 {
				q = uint(config.Current.AvifQuality)
			}
		}
		if q > 100 {
			return nil, fmt.Errorf("quality %d out of range 1-100", q)
		}
		outputs = append(outputs, optimize.Output{
			Format:    f,
			Quality:   uint8(q),
			Lossless:  jf.lossless,
			KeepAlpha: jf.keepAlpha,
		})
	}

	job := optimize.NewJob(jf.src, outputs...)
	job.MaxWidth = jf.mw
	job.MaxHeight = jf.mh
	job.AvifSpeed = jf.speed
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

// printEvents writes job events to the console until the channel
// closes, then signals done.
func printEvents(events <-chan optimize.Event, done chan<- struct{}) {
	defer close(done)
	for ev := range events {
		switch ev.Kind {
		case optimize.EvProgress:
			fmt.Printf("Processed %d/%d images\n", ev.Done, ev.Total)
		case optimize.EvError:
			if ev.File != "" {
				fmt.Printf("Error processing %s: %s\n", ev.File, ev.Message)
			} else {
				fmt.Printf("Error: %s\n", ev.Message)
			}
		default:
			if ev.Message != "" {
				fmt.Println(ev.Message)
			}
		}
	}
}

// interruptContext is cancelled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var jfRun jobFlags

func init() {
	cmdRun.Run = runRun
	jfRun.register(&cmdRun.Flag)
}

func runRun(args []string) bool {
	if jfRun.src == "" && len(args) > 0 {
		jfRun.src = args[0]
	}
	if jfRun.src == "" {
		errorf("no source folder, use -s")
		return false
	}

	job, err := jfRun.job()
	if err != nil {
		errorf("%s", err)
		return false
	}

	ctx, cancel := interruptContext()
	defer cancel()

	events := make(chan optimize.Event, 64)
	done := make(chan struct{})
	go printEvents(events, done)

	runner := optimize.Runner{Sink: events}
	sum, err := runner.Run(ctx, job)
	<-done
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return true
		}
		errorf("%s", err)
		return false
	}

	fmt.Printf("Converted %d of %d images, %d failed, %d bytes in, %d bytes out, took %s\n",
		sum.Converted, sum.Total, sum.Failed, sum.BytesIn, sum.BytesOut, sum.Elapsed.Round(time.Millisecond))
	return true
}
