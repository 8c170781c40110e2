// Package observability wires crash reporting for the pipeline binary.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/mwozniak/jobrank/internal/config"
)

// Init configures the global Sentry client. A blank DSN disables
// reporting without the caller needing to branch on it.
func Init(cfg config.ObservabilityConfig) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Env,
	})
}

// Flush blocks until buffered events are delivered or the timeout elapses.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// CaptureError reports err to Sentry, tagging it with op.
func CaptureError(op string, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("op", op)
		sentry.CaptureException(err)
	})
}
