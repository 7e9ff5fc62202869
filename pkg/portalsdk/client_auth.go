package portalsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login verifies credentials. A 401 yields an error wrapping
// ErrInvalidCredentials and never fires the unauthorized hook; a restricted
// account yields *RestrictedAccountError.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := Validate(req); err != nil {
		return nil, err
	}

	resp, err := c.doJSON(ctx, http.MethodPost, loginPath, req)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to email a reset link. The backend answers
// the same way for unknown addresses.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	req := ForgotPasswordRequest{Email: strings.TrimSpace(email)}
	if err := Validate(req); err != nil {
		return nil, err
	}

	// The address travels both as a query parameter and in the body; older
	// backends read only the former.
	path := "/auth/forgot-password?email=" + url.QueryEscape(req.Email)

	resp, err := c.doJSON(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(resp)
}

// ResetPassword sets a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*MessageResponse, error) {
	req := ResetPasswordRequest{Token: strings.TrimSpace(token), NewPassword: newPassword}
	if err := Validate(req); err != nil {
		return nil, err
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/reset-password", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(resp)
}
