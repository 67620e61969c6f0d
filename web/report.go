package web

import (
	"github.com/getsentry/raven-go"

	"github.com/roljohntorralba/imgopt/config"
)

var (
	packagePrefixes = []string{"github.com/roljohntorralba"}
)

// reportError ships a job-fatal error to sentry when a DSN is set.
func reportError(err error, tags map[string]string) {
	if config.Current.SentryDSN == "" {
		return
	}
	packet := raven.NewPacket(err.Error(),
		raven.NewException(err, raven.NewStacktrace(1, 3, packagePrefixes)))

	raven.Capture(packet, tags)
}
