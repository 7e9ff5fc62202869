package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/srots/portal/internal/devapi/domain"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/cryptox"
	"github.com/srots/portal/pkg/slogx"
)

// DefaultResetTTL is how long a reset link stays usable.
const DefaultResetTTL = 30 * time.Minute

// Mailer delivers password reset links.
type Mailer interface {
	SendResetLink(ctx context.Context, email, link string) error
}

// LogMailer writes reset links to the log instead of sending mail.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendResetLink(ctx context.Context, email, link string) error {
	log := m.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}
	log.Info("password reset link", "email", email, "link", link)
	return nil
}

// RecoveryService runs the forgot and reset password exchange.
type RecoveryService struct {
	Store  store.Store
	Mailer Mailer

	// ResetURL is the portal page that accepts ?token=.
	ResetURL string
	TTL      time.Duration
	Now      func() time.Time
}

// RequestReset mails a single-use reset link. Unknown addresses succeed
// silently so the endpoint does not reveal which emails exist.
func (s *RecoveryService) RequestReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidRequest
	}

	acct, err := s.Store.Accounts().GetAccountByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	err = s.Store.ResetTokens().SaveResetToken(ctx, domain.ResetToken{
		Fingerprint: cryptox.FingerprintToken(token),
		AccountID:   acct.ID,
		ExpiresAt:   s.now().Add(s.ttl()),
	})
	if err != nil {
		return err
	}

	return s.Mailer.SendResetLink(ctx, acct.Email, s.link(token))
}

// Reset consumes token and sets a new password.
func (s *RecoveryService) Reset(ctx context.Context, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(token) == "" || newPassword == "" {
		return ErrInvalidRequest
	}

	rt, err := s.Store.ResetTokens().ConsumeResetToken(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if !s.now().Before(rt.ExpiresAt) {
		return ErrInvalidToken
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.Store.Accounts().UpdateAccount(ctx, rt.AccountID, func(a *domain.Account) error {
		a.PasswordHash = hash
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("password reset", "user_id", rt.AccountID)
	return nil
}

func (s *RecoveryService) link(token string) string {
	base := s.ResetURL
	if base == "" {
		base = "http://localhost:5173/reset-password"
	}
	return base + "?" + url.Values{"token": {token}}.Encode()
}

func (s *RecoveryService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultResetTTL
}

func (s *RecoveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
