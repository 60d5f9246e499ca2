package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type TemplateStateStore interface {
	Find(ctx context.Context, uid, templateID string) (*models.TemplateState, error)
	Save(ctx context.Context, uid, templateID string, req models.TemplateStateRequest) (*models.TemplateState, error)
}

// TemplateStateController stores the editor state of the caller's templates
type TemplateStateController struct {
	store TemplateStateStore
}

func NewTemplateStateController(store TemplateStateStore) *TemplateStateController {
	return &TemplateStateController{store: store}
}

func (tc *TemplateStateController) GetState(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	state, err := tc.store.Find(ctx, middleware.UID(c), c.Param("templateId"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", state)
}

func (tc *TemplateStateController) SaveState(c echo.Context) error {
	var req models.TemplateStateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	state, err := tc.store.Save(ctx, middleware.UID(c), c.Param("templateId"), req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Template saved", state)
}
