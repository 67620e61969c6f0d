package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/raven-go"
	"golang.org/x/sync/errgroup"

	"github.com/roljohntorralba/imgopt/config"
	"github.com/roljohntorralba/imgopt/web"
)

var cmdServe = &Command{
	UsageLine: "serve [-l :8970]",
	Short:     "serve the local web UI and job API",
	Long: `
Serves the single page front end plus the JSON job API, with live job
progress over websocket. Jobs live in memory for the process lifetime.
`,
}

var serveAddr string

func init() {
	cmdServe.Run = runServe
	cmdServe.Flag.StringVar(&serveAddr, "l", "", "tcp listen addr (default from settings)")
}

func runServe(args []string) bool {
	addr := serveAddr
	if addr == "" {
		addr = config.Current.WebListen
	}

	if dsn := config.Current.SentryDSN; dsn != "" {
		if err := raven.SetDSN(dsn); err != nil {
			logger().Warnw("sentry dsn rejected", "err", err)
		}
		raven.SetTagsContext(map[string]string{"service": "imgopt-web", "ver": config.Version})
	}

	fmt.Printf("Start %s web %s at addr %s\n", config.Current.Name, config.Version, addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     web.Handler(),
		ReadTimeout: config.Current.ReadTimeout,
	}

	ctx, cancel := interruptContext()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger().Errorw("serve fail", "addr", addr, "err", err)
		return false
	}
	logger().Infow("server stopped")
	return true
}
