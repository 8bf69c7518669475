package city

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/httpx"
)

// Handler exposes cities over JSON. Public routes only ever see published cities.
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

func filterFromQuery(r *http.Request) (types.CityFilter, error) {
	var f types.CityFilter
	f.Status = r.URL.Query().Get("status")
	if raw := r.URL.Query().Get("country_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("%w: invalid country_id", types.ErrBadRequest)
		}
		f.CountryID = &id
	}
	return f, nil
}

// ListCities handles GET /api/cities.
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	filter.Status = types.CityStatusPublish

	cities, err := h.svc.ListCities(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cities)
}

// GetCity handles GET /api/cities/{id}. Drafts are reported as not found.
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	city, err := h.svc.GetCity(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if city.Status != types.CityStatusPublish {
		httpx.WriteError(w, fmt.Errorf("city %s: %w", id, types.ErrNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, city)
}

// AdminListCities handles GET /api/admin/cities with any status.
func (h *Handler) AdminListCities(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	cities, err := h.svc.ListCities(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cities)
}

// CreateCity handles POST /api/admin/cities.
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var params types.CreateCityParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	city, err := h.svc.CreateCity(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, city)
}

// UpdateCity handles PUT /api/admin/cities/{id}.
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var params types.UpdateCityParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	city, err := h.svc.UpdateCity(r.Context(), id, params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, city)
}

// DeleteCity handles DELETE /api/admin/cities/{id}.
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteCity(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
