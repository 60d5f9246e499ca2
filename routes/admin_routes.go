package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

// RegisterAdminRoutes sets up all admin-only routes. They share paths with
// the public and user routes, so the role check is per route.
func RegisterAdminRoutes(e *echo.Echo, ctrl Controllers, auth middleware.AuthConfig) {
	auth.AllowServiceTokens = false
	admin := []echo.MiddlewareFunc{
		middleware.Authenticate(auth),
		middleware.RequireRole(models.RoleAdmin),
	}

	// Packages
	e.GET("/api/packages/all", ctrl.Packages.ListAllPackages, admin...)
	e.POST("/api/packages", ctrl.Packages.CreatePackage, admin...)
	e.PUT("/api/packages/:id", ctrl.Packages.UpdatePackage, admin...)
	e.DELETE("/api/packages/:id", ctrl.Packages.DeletePackage, admin...)

	// Additional services
	e.GET("/api/services/all", ctrl.Services.ListAllServices, admin...)
	e.POST("/api/services", ctrl.Services.CreateService, admin...)
	e.PUT("/api/services/:id", ctrl.Services.UpdateService, admin...)
	e.DELETE("/api/services/:id", ctrl.Services.DeleteService, admin...)

	// Service requests
	e.GET("/api/service-requests", ctrl.ServiceRequests.ListRequests, admin...)
	e.PATCH("/api/service-requests/:id", ctrl.ServiceRequests.ResolveRequest, admin...)
	e.GET("/api/user-services/:uid", ctrl.ServiceRequests.UserServices, admin...)

	// Commission rate tables
	e.PUT("/api/commissions/settings/:table", ctrl.Commissions.SaveSettings, admin...)

	// QR codes
	e.GET("/api/qr-codes", ctrl.QRCodes.ListQRCodes, admin...)
	e.POST("/api/qr-codes", ctrl.QRCodes.CreateQRCode, admin...)
	e.GET("/api/qr-codes/:id", ctrl.QRCodes.GetQRCode, admin...)
	e.PUT("/api/qr-codes/:id", ctrl.QRCodes.UpdateQRCode, admin...)
	e.DELETE("/api/qr-codes/:id", ctrl.QRCodes.DeleteQRCode, admin...)
	e.GET("/api/qr-codes/:id/image", ctrl.QRCodes.QRCodeImage, admin...)

	e.POST("/api/email/send", ctrl.Email.SendEmail, admin...)
}
