package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/httputil"
)

// Recovery recovers from panics, logs the stack, and answers with the shared
// failure envelope instead of crashing the server.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
						Success: false,
						Message: "an internal error occurred",
						Code:    apperrors.CodeInternalError,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
