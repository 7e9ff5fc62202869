package http

import (
	"errors"
	"net/http"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

type UsersHandler struct {
	AuthService *service.AuthService
}

// HandleGet godoc
//
//	@Summary		Read a user profile
//	@Description	Users may read their own profile. Administrators and platform developers may read any.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	portalsdk.User
//	@Failure		401	{object}	httpx.MessageResponse
//	@Failure		403	{object}	httpx.MessageResponse
//	@Failure		404	{object}	httpx.MessageResponse
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	p, _ := httpx.PrincipalFromContext(r.Context())

	id := r.PathValue("id")
	if id != p.UserID && !isAdmin(p.Role) {
		httpx.WriteError(w, http.StatusForbidden, "You do not have access to this resource")
		return
	}

	u, err := h.AuthService.Profile(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		log.Error("profile lookup failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Could not load profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, u)
}

func isAdmin(role string) bool {
	return role == string(portalsdk.RoleAdmin) || role == string(portalsdk.RoleSrotsDev)
}
