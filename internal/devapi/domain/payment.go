package domain

import "time"

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "CREATED"
	PaymentPaid    PaymentStatus = "PAID"
)

// Order is a payment-provider order for a premium subscription.
type Order struct {
	ID        string
	AccountID string
	Receipt   string
	Amount    int64 // paise
	Currency  string
	Status    PaymentStatus
	PaymentID string
	CreatedAt time.Time
}

// ResetToken is a pending password reset. Only the fingerprint of the token
// is kept.
type ResetToken struct {
	Fingerprint string
	AccountID   string
	ExpiresAt   time.Time
}
