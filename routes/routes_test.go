package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	role, ok := v[idToken]
	if !ok {
		return nil, errors.New("rejected")
	}
	return &auth.Token{UID: idToken + "-uid", Claims: map[string]interface{}{"role": role}}, nil
}

func newRouter(t *testing.T) (*echo.Echo, middleware.AuthConfig) {
	t.Helper()
	cfg := middleware.AuthConfig{
		Verifier:      staticVerifier{"admin": models.RoleAdmin, "client": models.RoleClient},
		ServiceSecret: "secret",
	}
	e := echo.New()
	SetupRoutes(e, Controllers{}, cfg, t.TempDir())
	return e, cfg
}

func serve(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e, _ := newRouter(t)

	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/api/packages/all"},
		{http.MethodPost, "/api/packages"},
		{http.MethodDelete, "/api/services/abc"},
		{http.MethodGet, "/api/service-requests"},
		{http.MethodPut, "/api/commissions/settings/impulsor"},
		{http.MethodGet, "/api/qr-codes"},
		{http.MethodPost, "/api/email/send"},
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(e, route.method, route.target, "").Code, route.target)
		assert.Equal(t, http.StatusForbidden, serve(e, route.method, route.target, "client").Code, route.target)
	}
}

func TestUserRoutesRejectServiceTokens(t *testing.T) {
	e, cfg := newRouter(t)

	token, err := middleware.GenerateServiceToken(cfg.ServiceSecret, "landing", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/api/profile", token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/api/registrations", "").Code)
}

func TestServeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1700000000000.png"), []byte("png"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	e := echo.New()
	RegisterFileRoutes(e, dir)

	rec := serve(e, http.MethodGet, "/uploads/1700000000000.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")

	assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/uploads/missing.png", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/uploads/nested", "").Code)
}
