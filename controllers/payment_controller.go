package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type PaymentCreator interface {
	CreatePaymentIntent(ctx context.Context, uid, packageID string) (*models.PaymentIntentResponse, error)
	CreateCheckoutSession(ctx context.Context, uid string, req models.CheckoutSessionRequest) (*models.CheckoutSessionResponse, error)
}

type PaymentController struct {
	payments PaymentCreator
}

func NewPaymentController(payments PaymentCreator) *PaymentController {
	return &PaymentController{payments: payments}
}

func (pc *PaymentController) CreatePaymentIntent(c echo.Context) error {
	var req models.PaymentIntentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	intent, err := pc.payments.CreatePaymentIntent(ctx, middleware.UID(c), req.PackageID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", intent)
}

func (pc *PaymentController) CreateCheckoutSession(c echo.Context) error {
	var req models.CheckoutSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	session, err := pc.payments.CreateCheckoutSession(ctx, middleware.UID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", session)
}
