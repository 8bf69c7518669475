package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

type stubService struct {
	token    *Token
	err      error
	username string
	password string
}

func (s *stubService) Login(ctx context.Context, username, password string) (*Token, error) {
	s.username, s.password = username, password
	return s.token, s.err
}

func serveLogin(svc Service, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
	return rec
}

func TestHandler_Login(t *testing.T) {
	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := &stubService{token: &Token{AccessToken: "abc", TokenType: "Bearer", ExpiresAt: expires}}

	rec := serveLogin(svc, `{"username":"admin","password":"pw"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "admin", svc.username)
	assert.Equal(t, "pw", svc.password)

	var got Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.AccessToken)
	assert.True(t, expires.Equal(got.ExpiresAt))
}

func TestHandler_Login_Errors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveLogin(&stubService{err: types.ErrUnauthenticated}, `{"username":"a","password":"b"}`).Code)
	assert.Equal(t, http.StatusForbidden, serveLogin(&stubService{err: types.ErrForbidden}, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serveLogin(&stubService{}, `not json`).Code)
}
