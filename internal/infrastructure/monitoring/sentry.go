package monitoring

import (
	"net/http"
	"time"

	"go-medical-marketplace/config"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/sirupsen/logrus"
)

// InitSentry returns false when no DSN is configured
func InitSentry(cfg config.SentryConfig, env string, log *logrus.Logger) bool {
	if cfg.DSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      env,
	}); err != nil {
		log.Errorf("Sentry init failed: %v", err)
		return false
	}
	return true
}

func Flush() {
	sentry.Flush(2 * time.Second)
}

// Middleware attaches a hub to each request and reports panics
func Middleware(next http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(next)
}
