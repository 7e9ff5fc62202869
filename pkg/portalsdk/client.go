package portalsdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// UnauthorizedFunc is called when an authenticated call comes back 401.
// rejected is the token the request carried ("" if none).
type UnauthorizedFunc func(ctx context.Context, rejected, path string)

// Options configures NewClient. The zero value is usable.
type Options struct {
	Tokens         TokenSource
	OnUnauthorized UnauthorizedFunc

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	// Transport is the innermost round tripper, http.DefaultTransport if nil.
	Transport http.RoundTripper

	Logger *slog.Logger
}

// Client talks to the portal REST API rooted at BaseURL (including /api/v1).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient builds a client whose transport attaches bearer tokens and
// reports 401 responses to opts.OnUnauthorized.
func NewClient(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// bearer runs first so the 401 hook can see which token was rejected.
	rt := &bearerTransport{
		tokens: opts.Tokens,
		next: &unauthorizedTransport{
			hook:   opts.OnUnauthorized,
			logger: logger,
			next:   base,
		},
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
		Logger: logger,
	}
}
