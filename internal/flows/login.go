package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/srots/portal/internal/guard"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

const (
	MsgResetLinkSent     = "Reset link sent successfully"
	MsgResetLinkFailed   = "Failed to send reset link. Please check the email address."
	MsgPasswordReset     = "Password has been reset successfully"
	MsgPasswordResetFail = "Unable to reset your password. The link may have expired."
)

// AuthGateway is the part of the backend the login flow needs.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*portalsdk.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) (*portalsdk.MessageResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*portalsdk.MessageResponse, error)
}

// LoginResult is a completed sign-in.
type LoginResult struct {
	Session session.Session

	// Destination is the landing page for the signed-in role.
	Destination string

	// Notice is the backend's message for non-ACTIVE statuses, e.g. HOLD.
	Notice string
}

// ResetOutcome is the result of a recovery step. Failures are reported in
// Message rather than as errors.
type ResetOutcome struct {
	Sent    bool
	Message string
}

type Login struct {
	Gateway  AuthGateway
	Sessions *session.Container
}

// Login signs in with username and password. An existing session is ended
// first. A restricted account ends the session and returns
// *portalsdk.RestrictedAccountError; any other failure moves the container
// to AuthError with a human message.
func (f *Login) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if err := portalsdk.Validate(portalsdk.LoginRequest{Username: username, Password: password}); err != nil {
		return nil, err
	}

	if f.Sessions.State().Phase == session.Authenticated {
		if err := f.Sessions.Logout(ctx); err != nil {
			l.Warn("failed to clear previous session", slogx.Err(err))
		}
	}

	if err := f.Sessions.BeginLogin(); err != nil {
		return nil, err
	}

	resp, err := f.Gateway.Login(ctx, username, password)
	if err != nil {
		var restricted *portalsdk.RestrictedAccountError
		if errors.As(err, &restricted) {
			return nil, f.restrict(ctx, username, restricted)
		}

		msg := portalsdk.UserMessage(err)
		f.Sessions.FailLogin(msg)
		l.Info("login failed", slog.String("username", username), slogx.Err(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	if resp.AccountStatus == portalsdk.AccountRestricted {
		return nil, f.restrict(ctx, username, &portalsdk.RestrictedAccountError{Message: resp.Message})
	}

	sess := session.Session{Token: resp.Token, User: resp.User()}
	if err := f.Sessions.CompleteLogin(ctx, sess); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	l.Info("login succeeded",
		slog.String("user_id", sess.User.ID),
		slog.String("role", string(sess.Role())),
		slog.Bool("premium_active", sess.PremiumActive()),
	)

	return &LoginResult{
		Session:     sess,
		Destination: guard.DefaultDashboard(sess.Role(), sess.PremiumActive()),
		Notice:      resp.Message,
	}, nil
}

// restrict ends the session for a blocked account. The container never
// reaches Authenticated.
func (f *Login) restrict(ctx context.Context, username string, rerr *portalsdk.RestrictedAccountError) error {
	slogx.FromContext(ctx).Warn("restricted account attempted login", slog.String("username", username))
	if err := f.Sessions.Logout(ctx); err != nil {
		slogx.FromContext(ctx).Error("failed to clear session for restricted account", slogx.Err(err))
	}
	return rerr
}

// Logout ends the current session. Calling it without a session is a no-op.
func (f *Login) Logout(ctx context.Context) error {
	return f.Sessions.Logout(ctx)
}

// RequestPasswordReset asks for a reset link. It makes one attempt.
func (f *Login) RequestPasswordReset(ctx context.Context, email string) ResetOutcome {
	resp, err := f.Gateway.ForgotPassword(ctx, email)
	if err != nil {
		slogx.FromContext(ctx).Info("password reset request failed", slogx.Err(err))
		return ResetOutcome{Message: failureMessage(err, MsgResetLinkFailed)}
	}
	return ResetOutcome{Sent: true, Message: orDefault(resp.Message, MsgResetLinkSent)}
}

// ResetPassword sets a new password with the token from the reset email.
func (f *Login) ResetPassword(ctx context.Context, token, newPassword string) ResetOutcome {
	resp, err := f.Gateway.ResetPassword(ctx, token, newPassword)
	if err != nil {
		slogx.FromContext(ctx).Info("password reset failed", slogx.Err(err))
		return ResetOutcome{Message: failureMessage(err, MsgPasswordResetFail)}
	}
	return ResetOutcome{Sent: true, Message: orDefault(resp.Message, MsgPasswordReset)}
}

// failureMessage prefers validation and transport messages over fallback.
func failureMessage(err error, fallback string) string {
	var (
		invalid *portalsdk.ValidationError
		apiErr  *portalsdk.APIError
	)
	switch {
	case errors.As(err, &invalid),
		errors.Is(err, portalsdk.ErrNetworkTimeout),
		errors.Is(err, portalsdk.ErrNetwork):
		return portalsdk.UserMessage(err)
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return fallback
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
