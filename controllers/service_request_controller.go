package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

// ServiceRequestManager files, lists and resolves service requests
type ServiceRequestManager interface {
	Submit(ctx context.Context, uid string, req models.CreateServiceRequest) (*models.ServiceRequest, error)
	List(ctx context.Context, uid, status string) ([]models.ServiceRequest, error)
	Resolve(ctx context.Context, id, status string) (*models.ServiceRequest, error)
	UserServices(ctx context.Context, uid string) ([]models.UserService, error)
}

type ServiceRequestController struct {
	manager ServiceRequestManager
}

func NewServiceRequestController(manager ServiceRequestManager) *ServiceRequestController {
	return &ServiceRequestController{manager: manager}
}

func (rc *ServiceRequestController) SubmitRequest(c echo.Context) error {
	var req models.CreateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := rc.manager.Submit(ctx, middleware.UID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusCreated, "Request submitted", created)
}

// MyRequests lists the caller's own requests
func (rc *ServiceRequestController) MyRequests(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	requests, err := rc.manager.List(ctx, middleware.UID(c), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", requests)
}

// ListRequests lists every user's requests, optionally filtered by status
func (rc *ServiceRequestController) ListRequests(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		return failure(c, http.StatusBadRequest, "unknown status "+status)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	requests, err := rc.manager.List(ctx, "", status)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", requests)
}

func (rc *ServiceRequestController) ResolveRequest(c echo.Context) error {
	var req models.ResolveServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resolved, err := rc.manager.Resolve(ctx, c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Request "+resolved.Status, resolved)
}

// MyServices lists the caller's subscribed services
func (rc *ServiceRequestController) MyServices(c echo.Context) error {
	return rc.userServices(c, middleware.UID(c))
}

func (rc *ServiceRequestController) UserServices(c echo.Context) error {
	return rc.userServices(c, c.Param("uid"))
}

func (rc *ServiceRequestController) userServices(c echo.Context, uid string) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	services, err := rc.manager.UserServices(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", services)
}
