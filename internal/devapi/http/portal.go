package http

import (
	"net/http"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/internal/guard"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/slogx"
)

// PortalPrefix serves a preview of the portal's page routing.
const PortalPrefix = "/portal"

// PortalPage is what the preview renders for a page the viewer may open.
type PortalPage struct {
	Path string `json:"path" example:"/student/jobs"`
}

type PortalHandler struct {
	AuthService *service.AuthService
}

// Subject builds the guard subject from the bearer token and the account's
// current profile. Anything unverifiable is anonymous.
func (h *PortalHandler) Subject(r *http.Request) guard.Subject {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		return guard.Subject{}
	}

	p, err := h.AuthService.Verify(raw)
	if err != nil {
		return guard.Subject{}
	}

	u, err := h.AuthService.Profile(r.Context(), p.UserID)
	if err != nil {
		slogx.FromContext(r.Context()).Warn("portal preview profile lookup failed", slogx.Err(err))
		return guard.Subject{}
	}

	return guard.Subject{
		Token:         raw,
		Role:          u.Role,
		PremiumActive: u.PremiumActive,
	}
}

// HandlePage reports the page the guard let through. Redirect locations are
// portal paths, without PortalPrefix.
func (h *PortalHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, PortalPage{Path: r.URL.Path})
}
