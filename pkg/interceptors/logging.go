package interceptors

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// NewLoggingInterceptor logs every request with its duration and response size.
func NewLoggingInterceptor(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			logger.DebugContext(r.Context(), "HTTP request started", appendLoggerFields(r.Context(),
				"method", r.Method,
				"path", r.URL.Path,
				"peer", r.RemoteAddr,
				"request_size_bytes", r.ContentLength,
			)...)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			fields := appendLoggerFields(r.Context(),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.code(),
				"duration", duration.String(),
				"duration_ms", duration.Milliseconds(),
				"response_size_bytes", rec.size,
			)

			if rec.code() >= http.StatusInternalServerError {
				logger.ErrorContext(r.Context(), "HTTP request failed", fields...)
			} else {
				logger.InfoContext(r.Context(), "HTTP request completed", fields...)
			}
		})
	}
}

func appendLoggerFields(ctx context.Context, base ...any) []any {
	if requestID, ok := RequestIDFromContext(ctx); ok && requestID != "" {
		base = append(base, "request_id", requestID)
	}
	return base
}
