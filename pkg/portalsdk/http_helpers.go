package portalsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON sends body (if non-nil) as JSON and returns the raw response.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// transportError classifies a failed round trip as a timeout or a generic
// network failure.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// decodeJSON decodes a JSON response into target. Non-2xx responses are
// parsed into a typed error.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp, body)
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeMessage accepts either {"message": "..."} or a plain text body, the
// two shapes acknowledgement endpoints use.
func decodeMessage(resp *http.Response) (*MessageResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp, body)
	}

	return &MessageResponse{Message: extractMessage(body).Message}, nil
}

// extractMessage pulls a human message out of a JSON or text body.
func extractMessage(body []byte) errorBody {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errorBody{}
	}

	var eb errorBody
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &eb) == nil {
		if eb.Message == "" {
			eb.Message = eb.Error
		}
		return eb
	}

	var s string
	if trimmed[0] == '"' && json.Unmarshal(trimmed, &s) == nil {
		return errorBody{Message: s}
	}

	// Plain text, but never echo an HTML error page.
	text := string(trimmed)
	if strings.HasPrefix(text, "<") || len(text) > maxMessageLen {
		return errorBody{}
	}
	return errorBody{Message: text}
}

const maxMessageLen = 200
