package interceptors

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryInterceptor turns a handler panic into a 500 and logs the stack.
func NewRecoveryInterceptor(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.ErrorContext(r.Context(), "panic recovered", appendLoggerFields(r.Context(),
						"path", r.URL.Path,
						"panic", p,
						"stack", string(debug.Stack()),
					)...)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
