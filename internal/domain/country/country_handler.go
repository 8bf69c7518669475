package country

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/httpx"
)

// Handler serves the country taxonomy over JSON.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// ListCountries handles GET /api/countries.
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.svc.ListCountries(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, countries)
}

// GetCountry handles GET /api/countries/{id}.
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.svc.GetCountry(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// CreateCountry handles POST /api/admin/countries.
func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var params types.CreateCountryParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.svc.CreateCountry(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCountry handles PUT /api/admin/countries/{id}.
func (h *Handler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var params types.UpdateCountryParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.svc.UpdateCountry(r.Context(), id, params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// DeleteCountry handles DELETE /api/admin/countries/{id}.
func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteCountry(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
