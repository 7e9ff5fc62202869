package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// SignatureHeader carries the provider's hex HMAC of the webhook body.
const SignatureHeader = "X-Razorpay-Signature"

type PremiumHandler struct {
	PremiumService *service.PremiumService
}

// HandleSubscribe godoc
//
//	@Summary		Activate premium with a UTR
//	@Description	Records an out-of-band UPI payment by its bank reference. Months defaults to 12.
//	@Tags			Premium
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		portalsdk.SubscribeRequest	true	"UTR and plan length"
//	@Success		200		{object}	httpx.MessageResponse
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		401		{object}	httpx.MessageResponse
//	@Failure		403		{object}	httpx.MessageResponse
//	@Router			/premium/subscribe [post].
func (h *PremiumHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	p, _ := httpx.PrincipalFromContext(r.Context())

	var req portalsdk.SubscribeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := portalsdk.Validate(req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.PremiumService.Activate(r.Context(), p.UserID, req.UTRNumber, req.Months)
	switch {
	case errors.Is(err, service.ErrInvalidUTR):
		httpx.WriteError(w, http.StatusBadRequest, service.MsgInvalidUTR)
		return
	case errors.Is(err, service.ErrNotStudent):
		httpx.WriteError(w, http.StatusForbidden, service.MsgStudentsOnly)
		return
	case err != nil:
		log.Error("premium activation failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Activation failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: service.MsgPremiumActivated})
}

// HandleCreateOrder godoc
//
//	@Summary		Create a checkout order
//	@Tags			Premium
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	portalsdk.OrderResponse
//	@Failure		401	{object}	httpx.MessageResponse
//	@Failure		403	{object}	httpx.MessageResponse
//	@Router			/premium/create-order [post].
func (h *PremiumHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	p, _ := httpx.PrincipalFromContext(r.Context())

	order, err := h.PremiumService.CreateOrder(r.Context(), p.UserID)
	switch {
	case errors.Is(err, service.ErrNotStudent):
		httpx.WriteError(w, http.StatusForbidden, service.MsgStudentsOnly)
		return
	case err != nil:
		log.Error("create order failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, order)
}

// HandleWebhook godoc
//
//	@Summary		Payment provider webhook
//	@Description	Applies payment.captured events. The body must be signed with the shared webhook secret.
//	@Tags			Premium
//	@Accept			json
//	@Produce		json
//	@Param			X-Razorpay-Signature	header		string	true	"hex HMAC-SHA256 of the body"
//	@Success		200						{object}	httpx.MessageResponse
//	@Failure		400						{object}	httpx.MessageResponse
//	@Router			/premium/webhook [post].
func (h *PremiumHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, httpx.MaxBodyBytes))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.PremiumService.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid signature")
		return
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	case errors.Is(err, store.ErrNotFound):
		// The order's account is gone; nothing to retry.
		log.Warn("webhook for missing account", slogx.Err(err))
	case err != nil:
		log.Error("webhook failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "ok"})
}
