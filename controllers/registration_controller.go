package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type Registrar interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.Registration, error)
	List(ctx context.Context, viewer *models.UserProfile, kind string, limit int64) ([]models.Registration, error)
}

type RegistrationController struct {
	registrar Registrar
	profiles  middleware.ProfileLookup
}

func NewRegistrationController(registrar Registrar, profiles middleware.ProfileLookup) *RegistrationController {
	return &RegistrationController{registrar: registrar, profiles: profiles}
}

// Register records a landing page sign-up. Public.
func (rc *RegistrationController) Register(c echo.Context) error {
	var req models.RegistrationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	reg, err := rc.registrar.Register(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Registration received", reg)
}

// ListRegistrations returns every registration to admins and the caller's
// referrals to everyone else
func (rc *RegistrationController) ListRegistrations(c echo.Context) error {
	kind := c.QueryParam("kind")
	switch kind {
	case "", models.RegistrationVisitor, models.RegistrationMember:
	default:
		return failure(c, http.StatusBadRequest, "unknown kind "+kind)
	}

	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return failure(c, http.StatusBadRequest, "limit must be a positive number")
		}
		limit = n
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	viewer, err := rc.viewer(ctx, c)
	if err != nil {
		return respondError(c, err)
	}

	registrations, err := rc.registrar.List(ctx, viewer, kind, limit)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", registrations)
}

// viewer loads the caller's profile. The token role wins over the stored one.
func (rc *RegistrationController) viewer(ctx context.Context, c echo.Context) (*models.UserProfile, error) {
	uid, role := middleware.UID(c), middleware.Role(c)
	profile, err := rc.profiles.FindByUID(ctx, uid)
	if err != nil {
		if role == models.RoleAdmin && errors.Is(err, models.ErrNotFound) {
			return &models.UserProfile{UID: uid, Role: role}, nil
		}
		return nil, err
	}
	profile.Role = role
	return profile, nil
}
