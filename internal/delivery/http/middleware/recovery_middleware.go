package middleware

import (
	"net/http"
	"runtime/debug"

	"go-medical-marketplace/pkg/response"

	"github.com/sirupsen/logrus"
)

type RecoveryMiddleware struct {
	log *logrus.Logger
}

func NewRecoveryMiddleware(log *logrus.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{log: log}
}

// Handle turns a panic into a 500 envelope. It must wrap the Sentry handler,
// which reports the panic and then re-panics.
func (m *RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				m.log.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
					"stack":  string(debug.Stack()),
				}).Error("Recovered from panic")
				response.InternalServerError(w, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
