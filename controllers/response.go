package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

const requestTimeout = 10 * time.Second

// requestContext bounds a handler's store calls
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func failure(c echo.Context, status int, message string) error {
	return c.JSON(status, models.Response{
		Success: false,
		Error:   message,
	})
}

// bindAndValidate decodes the body into req and runs its validate tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.ErrInvalidInput
	}
	return c.Validate(req)
}

// respondError maps domain errors onto the response envelope
func respondError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "validation failed",
			Data:    fields,
		})
	}

	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		return failure(c, http.StatusForbidden, "permission_error")
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoActiveEntries):
		return failure(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrInvalidInput):
		return failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConflict):
		return failure(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotConfigured):
		return failure(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return failure(c, http.StatusGatewayTimeout, "request timed out")
	}

	logging.Error("Unhandled error", "path", c.Path(), "method", c.Request().Method, "error", err)
	return failure(c, http.StatusInternalServerError, "internal server error")
}

// HTTPErrorHandler renders echo's own errors with the response envelope
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = failure(c, he.Code, message)
		}
	} else {
		err = respondError(c, err)
	}
	if err != nil {
		logging.Error("Failed to write error response", "error", err)
	}
}
