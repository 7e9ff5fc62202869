package domain

import (
	"time"

	"github.com/srots/portal/pkg/portalsdk"
)

type Account struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	Role          portalsdk.Role
	CollegeID     string
	PasswordHash  string // bcrypt encoded
	Restricted    bool
	PremiumActive bool
	PremiumExpiry *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PremiumValidAt reports whether a student's subscription is active at t.
// Unlike the client view, an expiry is required.
func (a Account) PremiumValidAt(t time.Time) bool {
	return a.PremiumActive && a.PremiumExpiry != nil && a.PremiumExpiry.After(t)
}

// Status is the account status reported to clients at t.
func (a Account) Status(t time.Time) portalsdk.AccountStatus {
	switch {
	case a.Restricted:
		return portalsdk.AccountRestricted
	case a.Role == portalsdk.RoleStudent && !a.PremiumValidAt(t):
		return portalsdk.AccountHold
	default:
		return portalsdk.AccountActive
	}
}

// Profile is the client view of the account at t.
func (a Account) Profile(t time.Time) portalsdk.User {
	u := portalsdk.User{
		ID:            a.ID,
		Username:      a.Username,
		FullName:      a.FullName,
		Email:         a.Email,
		Role:          a.Role,
		CollegeID:     a.CollegeID,
		AccountStatus: a.Status(t),
	}
	if a.Role == portalsdk.RoleStudent {
		u.PremiumActive = a.PremiumValidAt(t)
		u.PremiumExpiry = a.PremiumExpiry
	}
	return u
}
