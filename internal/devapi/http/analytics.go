package http

import (
	"context"
	"net/http"

	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/pkg/httpx"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

type AnalyticsHandler struct {
	AnalyticsService *service.AnalyticsService
}

// HandleOverview godoc
//
//	@Summary		Placement overview
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]any
//	@Failure		401	{object}	httpx.MessageResponse
//	@Failure		403	{object}	httpx.MessageResponse
//	@Router			/analytics/overview [get].
func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.AnalyticsService.Overview)
}

// HandleSystem godoc
//
//	@Summary		Platform figures
//	@Tags			Analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]any
//	@Failure		401	{object}	httpx.MessageResponse
//	@Failure		403	{object}	httpx.MessageResponse
//	@Router			/analytics/system [get].
func (h *AnalyticsHandler) HandleSystem(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.AnalyticsService.System)
}

func (h *AnalyticsHandler) serve(w http.ResponseWriter, r *http.Request, fn func(context.Context) (portalsdk.Analytics, error)) {
	out, err := fn(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("analytics failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Could not load analytics")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
