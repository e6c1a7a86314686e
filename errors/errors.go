// Package errors wires process-level error reporting. Reporting is a no-op
// unless SENTRY_DSN is set in the environment.
package errors

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/meridianhq/go/logging"
	"github.com/meridianhq/go/version"
)

var logger = logging.New("errors")

func Init() {
	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		logger.Warn("SENTRY_DSN not set: skipping Sentry initialization!")
		return
	}

	logger.Info("Initializing Sentry")
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		AttachStacktrace: true,
		Release:          version.Version(),
	})
	if err != nil {
		logger.Warn("Failed to initialize Sentry client", zap.Error(err))
	}
}

// Flush drains any buffered events before process exit.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
