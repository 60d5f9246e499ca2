package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type CommissionReporter interface {
	Report(ctx context.Context, viewerUID, role string) (*models.CommissionReport, error)
}

type CommissionSettings interface {
	CommissionLevels(ctx context.Context, table string) ([]models.CommissionLevelSetting, error)
	SaveCommissionLevels(ctx context.Context, table string, levels []models.CommissionLevelSetting) error
}

type CommissionController struct {
	reporter CommissionReporter
	settings CommissionSettings
}

func NewCommissionController(reporter CommissionReporter, settings CommissionSettings) *CommissionController {
	return &CommissionController{reporter: reporter, settings: settings}
}

// GetReport computes the caller's commissions. A Firestore permission
// failure while walking the tree answers 403 permission_error.
func (cc *CommissionController) GetReport(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := cc.reporter.Report(ctx, middleware.UID(c), middleware.Role(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", report)
}

func (cc *CommissionController) GetSettings(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	levels, err := cc.settings.CommissionLevels(ctx, c.Param("table"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", levels)
}

func (cc *CommissionController) SaveSettings(c echo.Context) error {
	var req models.CommissionSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	table := c.Param("table")
	if err := cc.settings.SaveCommissionLevels(ctx, table, req.Levels); err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "Commission levels saved", req.Levels)
}
