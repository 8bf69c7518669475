package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("city: %w", types.ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(types.ErrBadRequest))
	assert.Equal(t, http.StatusConflict, StatusFor(types.ErrConflict))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(types.ErrUnauthenticated))
	assert.Equal(t, http.StatusBadGateway, StatusFor(types.ErrUpstream))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("db down")))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("widget 1: %w", types.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"widget 1: requested item not found"}`, rec.Body.String())
}

func TestWriteError_HidesServerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"database", fmt.Errorf("failed to list cities: %w", errors.New("dial tcp 10.0.0.5:5432: connection refused")), http.StatusInternalServerError},
		{"upstream", fmt.Errorf("%w: status 401 from api.openweathermap.org", types.ErrUpstream), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+http.StatusText(tt.code)+`"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "10.0.0.5")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Oslo"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Oslo", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":"Oslo"}`))
	err := DecodeJSON(req, &dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBadRequest)
}
