package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/models"
)

const testSecret = "test-secret"

type fakeVerifier struct {
	tokens map[string]*auth.Token
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token rejected")
}

type fakeProfiles map[string]*models.UserProfile

func (f fakeProfiles) FindByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	if p, ok := f[uid]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]*auth.Token{
		"admin-token":   {UID: "admin-1", Claims: map[string]interface{}{"role": models.RoleAdmin}},
		"profile-token": {UID: "imp-1", Claims: map[string]interface{}{}},
		"bare-token":    {UID: "ghost", Claims: map[string]interface{}{}},
	}}
}

func echoIdentity(c echo.Context) error {
	return c.String(http.StatusOK, UID(c)+"/"+Role(c))
}

func runAuth(t *testing.T, cfg AuthConfig, target, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Authenticate(cfg)(echoIdentity)(c))
	return rec
}

func TestAuthenticate(t *testing.T) {
	cfg := AuthConfig{
		Verifier: newVerifier(),
		Profiles: fakeProfiles{"imp-1": {UID: "imp-1", Role: models.RoleImpulsor}},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"role from custom claim", "Bearer admin-token", http.StatusOK, "admin-1/admin"},
		{"role from profile", "Bearer profile-token", http.StatusOK, "imp-1/" + models.RoleImpulsor},
		{"defaults to client", "bearer bare-token", http.StatusOK, "ghost/client"},
		{"missing token", "", http.StatusUnauthorized, ""},
		{"not a bearer header", "Basic abc", http.StatusUnauthorized, ""},
		{"rejected token", "Bearer forged", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runAuth(t, cfg, "/api/profile", tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthenticate_NoVerifier(t *testing.T) {
	rec := runAuth(t, AuthConfig{}, "/api/profile", "Bearer admin-token")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthenticate_ServiceTokens(t *testing.T) {
	token, err := GenerateServiceToken(testSecret, "landing", time.Hour)
	require.NoError(t, err)

	rec := runAuth(t, AuthConfig{
		Verifier:           newVerifier(),
		ServiceSecret:      testSecret,
		AllowServiceTokens: true,
	}, "/api/kv/foo", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "landing/service", rec.Body.String())

	// Routes without service access hand the token to Firebase, which rejects it
	rec = runAuth(t, AuthConfig{
		Verifier:      newVerifier(),
		ServiceSecret: testSecret,
	}, "/api/profile", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_QueryToken(t *testing.T) {
	cfg := AuthConfig{Verifier: newVerifier()}

	rec := runAuth(t, cfg, "/api/ws?token=admin-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cfg.AllowQueryToken = true
	rec = runAuth(t, cfg, "/api/ws?token=admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1/admin", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := RequireRole(models.RoleAdmin, models.RoleImpulsor)(echoIdentity)

	tests := []struct {
		role       string
		wantStatus int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleImpulsor, http.StatusOK},
		{models.RoleClient, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tt.role != "" {
			c.Set(ContextUID, "someone")
			c.Set(ContextRole, tt.role)
		}

		require.NoError(t, handler(c))
		assert.Equal(t, tt.wantStatus, rec.Code, "role %q", tt.role)
	}
}
