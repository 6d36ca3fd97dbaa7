package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/httputil"
)

type contextKeyType string

const principalKey contextKeyType = "principal"

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier validates a bearer token and returns the principal it
// represents. The concrete implementation lives with the service wiring so
// this package stays free of signing details.
type TokenVerifier func(token string) (*Principal, error)

// Authenticate validates the Authorization header and stores the resulting
// principal in the request context. Requests without a valid bearer token are
// rejected with the shared failure envelope.
func Authenticate(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.AuthFailed("missing authorization header"), nil)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.WriteError(w, r, apperrors.AuthFailed("invalid authorization header format"), nil)
				return
			}

			principal, err := verify(parts[1])
			if err != nil {
				httputil.WriteError(w, r, apperrors.AuthFailed("invalid or expired token"), nil)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request did not pass through Authenticate.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// UserIDFromContext extracts the authenticated user ID, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return ""
}
