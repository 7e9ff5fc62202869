package store

import (
	"context"
	"errors"

	"github.com/srots/portal/internal/devapi/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface of the development backend.
type Store interface {
	Accounts() Accounts
	Orders() Orders
	ResetTokens() ResetTokens
}

type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByLogin matches the username exactly or the email case-insensitively.
	GetAccountByLogin(ctx context.Context, login string) (domain.Account, error)

	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccount applies fn to the stored account atomically and bumps
	// UpdatedAt. An error from fn aborts the update.
	UpdateAccount(ctx context.Context, id string, fn func(*domain.Account) error) (domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, o domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)

	// MarkOrderPaid sets the order PAID. It reports false when the order was
	// already paid.
	MarkOrderPaid(ctx context.Context, id, paymentID string) (bool, error)
}

type ResetTokens interface {
	SaveResetToken(ctx context.Context, t domain.ResetToken) error

	// ConsumeResetToken removes and returns the token with fingerprint.
	ConsumeResetToken(ctx context.Context, fingerprint string) (domain.ResetToken, error)
}
