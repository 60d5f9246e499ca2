package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/models"
)

type ServiceStore interface {
	List(ctx context.Context, onlyActive bool) ([]models.AdditionalService, error)
	FindByID(ctx context.Context, id string) (*models.AdditionalService, error)
	Create(ctx context.Context, req models.AdditionalServiceRequest) (*models.AdditionalService, error)
	Update(ctx context.Context, id string, req models.AdditionalServiceRequest) (*models.AdditionalService, error)
	Delete(ctx context.Context, id string) error
}

// ServiceController manages the additional services catalogue
type ServiceController struct {
	store ServiceStore
}

func NewServiceController(store ServiceStore) *ServiceController {
	return &ServiceController{store: store}
}

func (sc *ServiceController) ListServices(c echo.Context) error {
	return sc.list(c, true)
}

func (sc *ServiceController) ListAllServices(c echo.Context) error {
	return sc.list(c, false)
}

func (sc *ServiceController) list(c echo.Context, onlyActive bool) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	services, err := sc.store.List(ctx, onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", services)
}

func (sc *ServiceController) GetService(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	svc, err := sc.store.FindByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", svc)
}

func (sc *ServiceController) CreateService(c echo.Context) error {
	var req models.AdditionalServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	svc, err := sc.store.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Service created", svc)
}

func (sc *ServiceController) UpdateService(c echo.Context) error {
	var req models.AdditionalServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	svc, err := sc.store.Update(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Service updated", svc)
}

func (sc *ServiceController) DeleteService(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.store.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Service deleted", nil)
}
