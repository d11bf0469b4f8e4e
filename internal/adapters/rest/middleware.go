package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BerkanHRGL/schadeautos/internal/contextkeys"
	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

// requestLogger tags every request with a trace id, puts a scoped logger on
// the context and logs the request after it finishes.
func requestLogger(logger port.LoggerPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.NewString()
			scoped := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithTraceID(r.Context(), traceID)
			ctx = contextkeys.ContextWithLogger(ctx, scoped)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			started := time.Now()

			next.ServeHTTP(recorder, r.WithContext(ctx))

			scoped.Info("http request", port.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      recorder.status,
				"duration_ms": time.Since(started).Milliseconds(),
			})
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
