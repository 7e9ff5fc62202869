package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the shortest accepted HMAC secret, in bytes.
const MinSecretLen = 32

var (
	ErrWeakSecret  = errors.New("jwtx: secret shorter than 32 bytes")
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// HS256 signs and verifies tokens with a shared secret.
type HS256 struct {
	secret []byte
	issuer string

	// Now is the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign serializes claims into a compact JWS.
func (h *HS256) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return s, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (h *HS256) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(h.now()); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (h *HS256) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
