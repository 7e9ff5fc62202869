package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// RestrictedResponse is the 403 body for blocked accounts.
type RestrictedResponse struct {
	AccountStatus portalsdk.AccountStatus `json:"accountStatus"`
	Message       string                  `json:"message"`
}

type AuthHandler struct {
	AuthService     *service.AuthService
	RecoveryService *service.RecoveryService
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Authenticates by username or email. Students without an active subscription receive a token with accountStatus HOLD.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	portalsdk.LoginResponse
//	@Failure		400		{object}	httpx.MessageResponse	"validation failed"
//	@Failure		401		{string}	string					"Invalid username or password"
//	@Failure		403		{object}	RestrictedResponse		"account restricted"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req portalsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := portalsdk.Validate(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrAccountRestricted):
		httpx.WriteJSON(w, http.StatusForbidden, RestrictedResponse{
			AccountStatus: portalsdk.AccountRestricted,
			Message:       service.MsgRestrictedByAdmin,
		})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.NoCache(w)
		http.Error(w, service.MsgInvalidCredentials, http.StatusUnauthorized)
		return
	case err != nil:
		log.Error("login failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleForgotPassword godoc
//
//	@Summary		Request a password reset link
//	@Description	Mails a single-use reset link. Answers the same way for unknown addresses.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			email	query		string							false	"Account email"
//	@Param			request	body		portalsdk.ForgotPasswordRequest	false	"Account email"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req portalsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if q := strings.TrimSpace(r.URL.Query().Get("email")); q != "" {
		req.Email = q
	}
	if err := portalsdk.Validate(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.RecoveryService.RequestReset(r.Context(), req.Email); err != nil {
		log.Error("reset request failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to send reset link")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: service.MsgResetLinkSent})
}

// HandleResetPassword godoc
//
//	@Summary		Reset a password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		portalsdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Router			/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req portalsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := portalsdk.Validate(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.RecoveryService.Reset(r.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, service.MsgInvalidResetToken)
		return
	case err != nil:
		log.Error("password reset failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: service.MsgPasswordReset})
}
