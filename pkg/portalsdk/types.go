package portalsdk

import "time"

// ============================================================================
// Identity
// ============================================================================

// Role is the capability class of a portal user.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleStaff    Role = "STAFF"
	RoleCPH      Role = "CPH"
	RoleAdmin    Role = "ADMIN"
	RoleSrotsDev Role = "SROTS_DEV"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleCPH, RoleAdmin, RoleSrotsDev:
		return true
	}
	return false
}

// AccountStatus is the administrative state of an account.
type AccountStatus string

const (
	AccountActive     AccountStatus = "ACTIVE"
	AccountRestricted AccountStatus = "RESTRICTED"
	// AccountHold marks a student who must pay before using the portal.
	AccountHold AccountStatus = "HOLD"
)

// User is the profile snapshot held by the client.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email,omitempty"`
	Role          Role          `json:"role"`
	CollegeID     string        `json:"collegeId,omitempty"`
	PremiumActive bool          `json:"premiumActive"`
	AccountStatus AccountStatus `json:"accountStatus,omitempty"`

	// PremiumExpiry is set for students with a subscription on record.
	PremiumExpiry *time.Time `json:"premiumExpiry,omitempty"`
}

// PremiumValidAt reports whether the subscription is active at t. A missing
// expiry means the backend did not report one and the flag alone decides.
func (u User) PremiumValidAt(t time.Time) bool {
	if !u.PremiumActive {
		return false
	}
	return u.PremiumExpiry == nil || u.PremiumExpiry.After(t)
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	// Token is the bearer credential for subsequent calls
	Token string `json:"token"`

	UserID    string `json:"userId"`
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	CollegeID string `json:"collegeId,omitempty"`

	// AccountStatus is HOLD for students without an active subscription
	AccountStatus AccountStatus `json:"accountStatus"`

	// Message accompanies non-ACTIVE statuses
	Message string `json:"message,omitempty"`

	PremiumActive bool `json:"premiumActive"`
}

// User returns the profile snapshot carried by the login response.
func (r *LoginResponse) User() User {
	return User{
		ID:            r.UserID,
		Username:      r.Username,
		FullName:      r.FullName,
		Email:         r.Email,
		Role:          r.Role,
		CollegeID:     r.CollegeID,
		PremiumActive: r.PremiumActive,
		AccountStatus: r.AccountStatus,
	}
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Premium Types
// ============================================================================

// SubscribeRequest is the body of POST /premium/subscribe.
type SubscribeRequest struct {
	// UTRNumber is the bank transaction reference of an out-of-band payment
	UTRNumber string `json:"utrNumber" validate:"required,min=6,max=22,alphanum"`

	// Months is the plan length; the backend defaults to 12 when omitted
	Months int `json:"months,omitempty" validate:"omitempty,oneof=3 6 12"`
}

// OrderResponse is returned by POST /premium/create-order and is handed to
// the payment-provider checkout.
type OrderResponse struct {
	// Key is the provider's public key id
	Key string `json:"key"`

	// Amount is in the currency's minor unit (paise)
	Amount int64 `json:"amount"`

	OrderID  string `json:"orderId"`
	Currency string `json:"currency,omitempty"`
}

// ============================================================================
// Analytics
// ============================================================================

// Analytics is a role-scoped dashboard aggregate. The client passes it
// through without interpretation.
type Analytics map[string]any
