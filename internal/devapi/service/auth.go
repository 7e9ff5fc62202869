package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srots/portal/internal/devapi/domain"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/cryptox"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/jwtx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// AuthService issues and verifies portal session tokens.
type AuthService struct {
	Store  store.Store
	Tokens *jwtx.HS256
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

var _ httpx.TokenVerifier = (*AuthService)(nil)

// Login authenticates by username or email.
//
// A restricted account is reported before the password is checked, as
// ErrAccountRestricted. Students without a current subscription still get a
// token, with status HOLD.
func (s *AuthService) Login(ctx context.Context, login, password string) (*portalsdk.LoginResponse, error) {
	log := slogx.FromContext(ctx)

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	acct, err := s.Store.Accounts().GetAccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login failed", "reason", "unknown_account")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if acct.Restricted {
		log.Info("login refused", "reason", "restricted", "user_id", acct.ID)
		return nil, ErrAccountRestricted
	}

	if err := cryptox.VerifyPassword(password, acct.PasswordHash); err != nil {
		log.Info("login failed", "reason", "bad_password", "user_id", acct.ID)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := s.issue(acct, now)
	if err != nil {
		return nil, err
	}

	profile := acct.Profile(now)
	resp := &portalsdk.LoginResponse{
		Token:         token,
		UserID:        acct.ID,
		FullName:      acct.FullName,
		Username:      acct.Username,
		Email:         acct.Email,
		Role:          acct.Role,
		CollegeID:     acct.CollegeID,
		AccountStatus: profile.AccountStatus,
		PremiumActive: profile.PremiumActive,
		Message:       MsgLoginSuccessful,
	}
	if profile.AccountStatus == portalsdk.AccountHold {
		resp.Message = MsgPremiumRequired
	}

	log.Info("login succeeded", "user_id", acct.ID, "role", acct.Role, "status", resp.AccountStatus)
	return resp, nil
}

func (s *AuthService) issue(acct domain.Account, now time.Time) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(acct.ID, acct.Username, string(acct.Role), acct.CollegeID, ttl, s.Issuer, now)
	token, err := s.Tokens.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Verify checks a bearer token. Tokens of accounts restricted after login
// stop working immediately.
func (s *AuthService) Verify(raw string) (httpx.Principal, error) {
	claims, err := s.Tokens.Verify(raw)
	if err != nil {
		return httpx.Principal{}, err
	}

	acct, err := s.Store.Accounts().GetAccountByID(context.Background(), claims.Subject)
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if acct.Restricted {
		return httpx.Principal{}, ErrAccountRestricted
	}

	return httpx.Principal{
		UserID:   acct.ID,
		Username: acct.Username,
		Role:     string(acct.Role),
	}, nil
}

// Profile returns the client view of the account.
func (s *AuthService) Profile(ctx context.Context, userID string) (portalsdk.User, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, userID)
	if err != nil {
		return portalsdk.User{}, err
	}
	return acct.Profile(s.now()), nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
