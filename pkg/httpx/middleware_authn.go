package httpx

import (
	"net/http"
	"strings"

	"github.com/srots/portal/pkg/slogx"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	const bearer = "Bearer "

	value := r.Header.Get("Authorization")
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}
	return token, true
}

// AuthnMiddleware rejects requests without a valid bearer token with 401 and
// stores the verified Principal in the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := v.Verify(raw)
			if err != nil {
				log.Warn("bearer verification failed", slogx.Err(err))
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAnyRole lets the request through when the principal holds one of
// roles; otherwise it answers 403.
func RequireAnyRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if _, ok := want[p.Role]; !ok {
				WriteError(w, http.StatusForbidden, "You do not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 style challenge with a JSON body the portal client can display.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
}
