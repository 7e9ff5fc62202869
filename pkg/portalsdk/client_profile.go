package portalsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Profile fetches the full profile of userID from the backend.
func (c *Client) Profile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, &ValidationError{Fields: map[string]string{"id": "id is required"}}
	}

	var out User
	if err := c.GetJSON(ctx, "/users/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyticsOverview returns the dashboard aggregate for the caller's role.
func (c *Client) AnalyticsOverview(ctx context.Context) (Analytics, error) {
	var out Analytics
	if err := c.GetJSON(ctx, "/analytics/overview", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyticsSystem returns platform-wide aggregates (admin roles only).
func (c *Client) AnalyticsSystem(ctx context.Context) (Analytics, error) {
	var out Analytics
	if err := c.GetJSON(ctx, "/analytics/system", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetJSON performs an authenticated GET on any resource under BaseURL and
// decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	if path == "" || path[0] != '/' {
		return errors.New("portalsdk: path must start with /")
	}

	resp, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}
