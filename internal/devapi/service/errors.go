package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountRestricted  = errors.New("account_restricted")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrNotStudent         = errors.New("not_student")
	ErrInvalidUTR         = errors.New("invalid_utr")
	ErrInvalidSignature   = errors.New("invalid_signature")
)

// Messages sent back to portal clients.
const (
	MsgLoginSuccessful    = "Login successful"
	MsgPremiumRequired    = "Premium required to access job features"
	MsgRestrictedByAdmin  = "Your account has been restricted by admin"
	MsgInvalidCredentials = "Invalid username or password"
	MsgResetLinkSent      = "Reset link sent successfully"
	MsgPasswordReset      = "Password has been reset successfully"
	MsgPremiumActivated   = "Premium activated successfully"
	MsgInvalidResetToken  = "Reset link is invalid or has expired"
	MsgInvalidUTR         = "UTR number must be at least 6 characters"
	MsgStudentsOnly       = "Only students can subscribe to premium"
)
