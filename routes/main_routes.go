package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/controllers"
	"github.com/HSouheill/webinar_backend/middleware"
)

// Controllers bundles every handler the router wires
type Controllers struct {
	Packages        *controllers.PackageController
	Services        *controllers.ServiceController
	ServiceRequests *controllers.ServiceRequestController
	TemplateStates  *controllers.TemplateStateController
	Registrations   *controllers.RegistrationController
	KeyValues       *controllers.KeyValueController
	Commissions     *controllers.CommissionController
	Profiles        *controllers.ProfileController
	QRCodes         *controllers.QRCodeController
	Uploads         *controllers.UploadController
	Payments        *controllers.PaymentController
	Email           *controllers.EmailController
	WebSocket       *controllers.WebSocketController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, ctrl Controllers, auth middleware.AuthConfig, uploadDir string) {
	RegisterPublicRoutes(e, ctrl)
	RegisterUserRoutes(e, ctrl, auth)
	RegisterAdminRoutes(e, ctrl, auth)
	RegisterKeyValueRoutes(e, ctrl.KeyValues, auth)
	RegisterFileRoutes(e, uploadDir)
}

// RegisterPublicRoutes sets up the routes landing pages and scanners hit
// without a session
func RegisterPublicRoutes(e *echo.Echo, ctrl Controllers) {
	e.GET("/api/packages", ctrl.Packages.ListPackages)
	e.GET("/api/packages/:id", ctrl.Packages.GetPackage)
	e.GET("/api/services", ctrl.Services.ListServices)
	e.GET("/api/services/:id", ctrl.Services.GetService)

	e.POST("/api/registrations", ctrl.Registrations.Register)

	e.GET("/qr/:slug", ctrl.QRCodes.Redirect)
}

// RegisterKeyValueRoutes sets up the settings store, which also accepts
// service tokens from other backends
func RegisterKeyValueRoutes(e *echo.Echo, kv *controllers.KeyValueController, auth middleware.AuthConfig) {
	auth.AllowServiceTokens = true
	r := e.Group("/api/kv")
	r.Use(middleware.Authenticate(auth))

	r.GET("/:key", kv.GetValue)
	r.PUT("/:key", kv.SetValue)
	r.DELETE("/:key", kv.DeleteValue)
}
