package city

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

type stubService struct {
	city       *types.CityDetail
	cities     []types.CityDetail
	err        error
	lastFilter types.CityFilter
	lastUpdate types.UpdateCityParams
	lastCalls  []string
}

func (s *stubService) CreateCity(ctx context.Context, params types.CreateCityParams) (*types.CityDetail, error) {
	s.lastCalls = append(s.lastCalls, "CreateCity")
	return s.city, s.err
}
func (s *stubService) GetCity(ctx context.Context, id uuid.UUID) (*types.CityDetail, error) {
	s.lastCalls = append(s.lastCalls, "GetCity")
	return s.city, s.err
}
func (s *stubService) ListCities(ctx context.Context, filter types.CityFilter) ([]types.CityDetail, error) {
	s.lastCalls = append(s.lastCalls, "ListCities")
	s.lastFilter = filter
	return s.cities, s.err
}
func (s *stubService) UpdateCity(ctx context.Context, id uuid.UUID, params types.UpdateCityParams) (*types.CityDetail, error) {
	s.lastCalls = append(s.lastCalls, "UpdateCity")
	s.lastUpdate = params
	return s.city, s.err
}
func (s *stubService) DeleteCity(ctx context.Context, id uuid.UUID) error {
	s.lastCalls = append(s.lastCalls, "DeleteCity")
	return s.err
}
func (s *stubService) SearchPublished(ctx context.Context, search string) ([]types.CitySearchRow, error) {
	s.lastCalls = append(s.lastCalls, "SearchPublished")
	return nil, s.err
}

func newTestMux(svc Service) *http.ServeMux {
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cities", h.ListCities)
	mux.HandleFunc("GET /api/cities/{id}", h.GetCity)
	mux.HandleFunc("GET /api/admin/cities", h.AdminListCities)
	mux.HandleFunc("POST /api/admin/cities", h.CreateCity)
	mux.HandleFunc("PUT /api/admin/cities/{id}", h.UpdateCity)
	mux.HandleFunc("DELETE /api/admin/cities/{id}", h.DeleteCity)
	return mux
}

func TestHandler_ListCities_OnlyPublished(t *testing.T) {
	svc := &stubService{cities: []types.CityDetail{{ID: uuid.New(), Name: "Tokyo", Status: "publish"}}}
	rec := httptest.NewRecorder()
	newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities?status=draft", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.CityStatusPublish, svc.lastFilter.Status)

	var got []types.CityDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Tokyo", got[0].Name)
}

func TestHandler_AdminListCities_KeepsStatusFilter(t *testing.T) {
	svc := &stubService{}
	rec := httptest.NewRecorder()
	newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/cities?status=draft", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "draft", svc.lastFilter.Status)
}

func TestHandler_ListCities_InvalidCountry(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(&stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities?country_id=xyz", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetCity_HidesDrafts(t *testing.T) {
	svc := &stubService{city: &types.CityDetail{ID: uuid.New(), Name: "Secret", Status: types.CityStatusDraft}}
	rec := httptest.NewRecorder()
	newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateCity_PartialBody(t *testing.T) {
	svc := &stubService{city: &types.CityDetail{ID: uuid.New(), Name: "Oslo"}}
	body := `{"latitude":"59.91"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/admin/cities/"+uuid.NewString(), strings.NewReader(body))
	newTestMux(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastUpdate.Latitude)
	assert.Equal(t, "59.91", *svc.lastUpdate.Latitude)
	assert.Nil(t, svc.lastUpdate.Longitude)
	assert.Nil(t, svc.lastUpdate.Name)
}

func TestHandler_CreateCity_BadRequest(t *testing.T) {
	svc := &stubService{err: types.ErrBadRequest}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/cities", strings.NewReader(`{"name":""}`))
	newTestMux(svc).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeleteCity(t *testing.T) {
	svc := &stubService{}
	rec := httptest.NewRecorder()
	newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/cities/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"DeleteCity"}, svc.lastCalls)
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
