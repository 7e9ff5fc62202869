package http

import (
	"net/http"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// Company is a recruiter listed on the job board.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

var demoCompanies = []Company{
	{ID: "cmp-1", Name: "Northwind Systems", Location: "Bengaluru"},
	{ID: "cmp-2", Name: "Contoso Analytics", Location: "Hyderabad"},
	{ID: "cmp-3", Name: "Fabrikam Labs", Location: "Pune"},
}

type CompaniesHandler struct {
	AuthService *service.AuthService
}

// HandleList godoc
//
//	@Summary		List recruiting companies
//	@Description	Students need an active subscription.
//	@Tags			Jobs
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		Company
//	@Failure		401	{object}	httpx.MessageResponse
//	@Failure		403	{object}	httpx.MessageResponse	"premium required"
//	@Router			/companies [get].
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	if p.Role == string(portalsdk.RoleStudent) {
		u, err := h.AuthService.Profile(r.Context(), p.UserID)
		if err != nil {
			slogx.FromContext(r.Context()).Error("profile lookup failed", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "Could not load companies")
			return
		}
		if !u.PremiumActive {
			httpx.WriteError(w, http.StatusForbidden, service.MsgPremiumRequired)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, demoCompanies)
}
