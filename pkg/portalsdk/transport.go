package portalsdk

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/srots/portal/pkg/idx"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"

	requestIDHeader = "X-Request-ID"
)

// isSessionEndpoint reports whether a 401 from path means "bad credentials"
// rather than "session expired".
func isSessionEndpoint(path string) bool {
	return strings.HasSuffix(path, loginPath) || strings.HasSuffix(path, refreshPath)
}

// bearerTransport attaches the bearer token and a request id.
type bearerTransport struct {
	tokens TokenSource
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A RoundTripper must not mutate the caller's request.
	req = req.Clone(req.Context())

	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, idx.New().String())
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	if t.tokens != nil {
		if token := t.tokens.Token(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.next.RoundTrip(req)
}

// unauthorizedTransport fires the session invalidation hook on 401 responses
// from authenticated endpoints. The response is passed through unchanged.
type unauthorizedTransport struct {
	hook   UnauthorizedFunc
	logger *slog.Logger
	next   http.RoundTripper
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if t.hook == nil || isSessionEndpoint(req.URL.Path) {
		return resp, nil
	}

	rejected := strings.TrimSpace(strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer"))

	t.logger.Warn("authorization rejected, invalidating session",
		"path", req.URL.Path,
		"req_id", req.Header.Get(requestIDHeader),
	)
	t.hook(req.Context(), rejected, req.URL.Path)

	return resp, nil
}
