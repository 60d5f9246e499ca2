package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/webinar_backend/models"
)

type fakeRegistrar struct {
	registered []models.RegistrationRequest
	viewer     *models.UserProfile
	kind       string
	limit      int64
}

func (f *fakeRegistrar) Register(_ context.Context, req models.RegistrationRequest) (*models.Registration, error) {
	f.registered = append(f.registered, req)
	return &models.Registration{Kind: req.Kind, FullName: req.FullName, Email: req.Email}, nil
}

func (f *fakeRegistrar) List(_ context.Context, viewer *models.UserProfile, kind string, limit int64) ([]models.Registration, error) {
	f.viewer, f.kind, f.limit = viewer, kind, limit
	return []models.Registration{}, nil
}

type profileMap map[string]*models.UserProfile

func (p profileMap) FindByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	profile, ok := p[uid]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func TestRegistrationController_Register(t *testing.T) {
	registrar := &fakeRegistrar{}
	rc := NewRegistrationController(registrar, profileMap{})

	c, rec := newContext(t, request{
		method: http.MethodPost,
		target: "/api/registrations",
		body:   `{"kind":"visitor","fullName":"Ana López","email":"ana@example.com","sponsorUsername":"bob"}`,
	})
	require.NoError(t, rc.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, registrar.registered, 1)
	assert.Equal(t, "bob", registrar.registered[0].SponsorUsername)
}

func TestRegistrationController_RegisterValidation(t *testing.T) {
	registrar := &fakeRegistrar{}
	rc := NewRegistrationController(registrar, profileMap{})

	for _, body := range []string{
		`{"kind":"guest","fullName":"Ana","email":"ana@example.com"}`,
		`{"kind":"member","email":"ana@example.com"}`,
		`{"kind":"member","fullName":"Ana","email":"ana"}`,
	} {
		c, rec := newContext(t, request{method: http.MethodPost, target: "/api/registrations", body: body})
		require.NoError(t, rc.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, registrar.registered)
}

func TestRegistrationController_List(t *testing.T) {
	profiles := profileMap{
		"bob-uid": {UID: "bob-uid", Username: "bob", Role: models.RoleClient},
	}

	t.Run("token role wins", func(t *testing.T) {
		registrar := &fakeRegistrar{}
		rc := NewRegistrationController(registrar, profiles)

		c, rec := newContext(t, request{
			method: http.MethodGet,
			target: "/api/registrations?kind=member&limit=20",
			uid:    "bob-uid",
			role:   models.RoleImpulsor,
		})
		require.NoError(t, rc.ListRegistrations(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bob", registrar.viewer.Username)
		assert.Equal(t, models.RoleImpulsor, registrar.viewer.Role)
		assert.Equal(t, models.RegistrationMember, registrar.kind)
		assert.Equal(t, int64(20), registrar.limit)
	})

	t.Run("admin without profile", func(t *testing.T) {
		registrar := &fakeRegistrar{}
		rc := NewRegistrationController(registrar, profiles)

		c, rec := newContext(t, request{method: http.MethodGet, target: "/api/registrations", uid: "root", role: models.RoleAdmin})
		require.NoError(t, rc.ListRegistrations(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.RoleAdmin, registrar.viewer.Role)
	})

	t.Run("client without profile", func(t *testing.T) {
		rc := NewRegistrationController(&fakeRegistrar{}, profiles)

		c, rec := newContext(t, request{method: http.MethodGet, target: "/api/registrations", uid: "ghost", role: models.RoleClient})
		require.NoError(t, rc.ListRegistrations(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad query", func(t *testing.T) {
		rc := NewRegistrationController(&fakeRegistrar{}, profiles)

		for _, target := range []string{"/api/registrations?kind=lead", "/api/registrations?limit=-1", "/api/registrations?limit=ten"} {
			c, rec := newContext(t, request{method: http.MethodGet, target: target, uid: "bob-uid", role: models.RoleClient})
			require.NoError(t, rc.ListRegistrations(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}
