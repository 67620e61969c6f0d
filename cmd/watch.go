package cmd

import (
	"fmt"
	"time"

	"github.com/roljohntorralba/imgopt/config"
	"github.com/roljohntorralba/imgopt/optimize"
	"github.com/roljohntorralba/imgopt/watcher"
)

var cmdWatch = &Command{
	UsageLine: "watch -s /path/to/images [-f webp,avif] [-delay 500ms]",
	Short:     "watch a folder and convert images as they appear",
	Long: `
Keeps the source folder under watch and converts every image that is
created or changed, after it settled for the debounce delay. New
subfolders are picked up, the webp/ and avif/ output folders are left
alone. Stop with Ctrl-C.
`,
}

var (
	jfWatch    jobFlags
	watchDelay time.Duration
)

func init() {
	cmdWatch.Run = runWatch
	jfWatch.register(&cmdWatch.Flag)
	cmdWatch.Flag.DurationVar(&watchDelay, "delay", 0, "debounce delay (default from settings)")
}

func runWatch(args []string) bool {
	if jfWatch.src == "" && len(args) > 0 {
		jfWatch.src = args[0]
	}
	job, err := jfWatch.job()
	if err != nil {
		errorf("%s", err)
		return false
	}
	if err = job.Validate(); err != nil {
		errorf("%s", err)
		return false
	}

	delay := watchDelay
	if delay <= 0 {
		delay = config.Current.WatchDelay
	}

	w, err := watcher.New(job.SrcDir, delay)
	if err != nil {
		errorf("%s", err)
		return false
	}

	ctx, cancel := interruptContext()
	defer cancel()

	if err = w.Start(ctx); err != nil {
		errorf("%s", err)
		return false
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	fmt.Printf("Watching %s, press Ctrl-C to stop\n", job.SrcDir)

	events := make(chan optimize.Event, 64)
	done := make(chan struct{})
	go printEvents(events, done)

	runner := optimize.Runner{Sink: events}
	for ft := range w.Tasks() {
		if err := runner.ConvertOne(job, ft); err != nil {
			fmt.Printf("Error processing %s: %s\n", ft.Rel, err)
			continue
		}
		fmt.Printf("Converted %s\n", ft.Rel)
	}
	close(events)
	<-done

	fmt.Println("Watch stopped")
	return true
}
