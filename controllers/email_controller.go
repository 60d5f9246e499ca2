package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/services"
)

type EmailController struct {
	mailer services.Mailer
}

// NewEmailController accepts a nil mailer, in which case sends answer 503
func NewEmailController(mailer services.Mailer) *EmailController {
	return &EmailController{mailer: mailer}
}

func (ec *EmailController) SendEmail(c echo.Context) error {
	if ec.mailer == nil {
		return respondError(c, models.ErrNotConfigured)
	}

	var req models.EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := ec.mailer.Send(req.To, req.Subject, req.HTML); err != nil {
		return failure(c, http.StatusBadGateway, "failed to send email")
	}
	return success(c, http.StatusOK, "Email sent", nil)
}
