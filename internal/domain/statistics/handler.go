package statistics

import (
	"net/http"

	"github.com/FACorreiaa/citytemp-api/pkg/httpx"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// CatalogStatistics handles GET /api/admin/statistics.
func (h *Handler) CatalogStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetCatalogStatistics(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
