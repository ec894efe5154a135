package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// SessionResolver turns a raw bearer token into a live Principal. It must
// fail for expired or revoked sessions.
type SessionResolver func(ctx context.Context, token string) (Principal, error)

// AuthnMiddleware requires a bearer session token and injects the resolved
// Principal into the request context.
func AuthnMiddleware(resolve SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := resolve(ctx, raw)
			if err != nil {
				log.Warn("session rejected", "err", err)
				writeBearerError(w, "session is invalid or has been signed out")
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = slogx.WithAccount(ctx, p.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
