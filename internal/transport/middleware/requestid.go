package middleware

import (
	"net/http"

	"github.com/frahmantamala/complaint-management/pkg/logger"

	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// RequestID tags every request with a trace id, reusing the caller's
// X-Trace-ID when present. The id plus the request method and path are
// attached to the context logger so every log line downstream carries them.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" || len(traceID) > 64 {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(),
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		// propagate back to response
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
