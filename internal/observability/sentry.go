package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the sentry client. A missing DSN disables reporting
// without error so local setups need no configuration.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

// FlushSentry drains buffered events before shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports an error when sentry is configured, no-op otherwise.
func CaptureError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
