package portalsdk

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrInvalidCredentials is returned when the login endpoint rejects the
	// username or password.
	ErrInvalidCredentials = errors.New("portalsdk: invalid credentials")

	// ErrAuthorizationExpired is returned when an authenticated call is
	// answered with 401. The session has already been invalidated by the
	// time the caller sees it.
	ErrAuthorizationExpired = errors.New("portalsdk: authorization expired")

	// ErrNetworkTimeout is returned when a request exceeds the client timeout.
	ErrNetworkTimeout = errors.New("portalsdk: network timeout")

	// ErrNetwork is returned for any other transport failure.
	ErrNetwork = errors.New("portalsdk: network failure")
)

// ============================================================================
// User-facing messages
// ============================================================================

const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgRestricted         = "Your account has been restricted. Please contact your administrator."
	MsgTimeout            = "The server took too long to respond. Please try again."
	MsgNetwork            = "Unable to reach the server. Check your connection and try again."
	MsgGeneric            = "Something went wrong. Please try again."
)

// ============================================================================
// Typed errors
// ============================================================================

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int

	// Message is the backend's human message, possibly empty.
	Message string

	kind error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portalsdk: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("portalsdk: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes the sentinel classifying this error, if any.
func (e *APIError) Unwrap() error { return e.kind }

// RestrictedAccountError is returned when an administrator has blocked the
// account. It always ends the session.
type RestrictedAccountError struct {
	Message string
}

func (e *RestrictedAccountError) Error() string {
	return "portalsdk: account restricted: " + e.userMessage()
}

func (e *RestrictedAccountError) userMessage() string {
	if strings.TrimSpace(e.Message) == "" {
		return MsgRestricted
	}
	return e.Message
}

// ValidationError reports request fields that failed local validation. No
// request was sent.
type ValidationError struct {
	// Fields maps the JSON field name to a message.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, ", ")
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// errorBody covers the error shapes the backend emits.
type errorBody struct {
	Message       string        `json:"message"`
	Error         string        `json:"error"`
	AccountStatus AccountStatus `json:"accountStatus"`
}

// parseErrorResponse converts a non-2xx response into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	eb := extractMessage(body)

	path := ""
	if resp.Request != nil && resp.Request.URL != nil {
		path = resp.Request.URL.Path
	}

	switch {
	case resp.StatusCode == http.StatusForbidden && eb.AccountStatus == AccountRestricted:
		return &RestrictedAccountError{Message: eb.Message}

	case resp.StatusCode == http.StatusUnauthorized && isSessionEndpoint(path):
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Message, kind: ErrInvalidCredentials}

	case resp.StatusCode == http.StatusUnauthorized:
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Message, kind: ErrAuthorizationExpired}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: eb.Message}
}

// UserMessage maps err to a short message suitable for end users. Backend
// text is used only when present; every branch has a fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		restricted *RestrictedAccountError
		invalid    *ValidationError
		apiErr     *APIError
	)

	switch {
	case errors.As(err, &restricted):
		return restricted.userMessage()
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, ErrNetworkTimeout):
		return MsgTimeout
	case errors.Is(err, ErrNetwork):
		return MsgNetwork
	case errors.Is(err, ErrAuthorizationExpired):
		return MsgSessionExpired
	case errors.Is(err, ErrInvalidCredentials):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgInvalidCredentials
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}

	return MsgGeneric
}
