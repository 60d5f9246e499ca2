package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

// RegisterUserRoutes sets up all routes for signed-in dashboard users
func RegisterUserRoutes(e *echo.Echo, ctrl Controllers, auth middleware.AuthConfig) {
	auth.AllowServiceTokens = false

	r := e.Group("/api")
	r.Use(middleware.Authenticate(auth))
	r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleClient, models.RoleImpulsor))

	// Profile and referral tree
	r.GET("/profile", ctrl.Profiles.GetProfile)
	r.GET("/referrals/tree", ctrl.Profiles.GetReferralTree)

	// Commissions
	r.GET("/commissions", ctrl.Commissions.GetReport)
	r.GET("/commissions/settings/:table", ctrl.Commissions.GetSettings)

	// Service requests and subscriptions
	r.POST("/service-requests", ctrl.ServiceRequests.SubmitRequest)
	r.GET("/service-requests/mine", ctrl.ServiceRequests.MyRequests)
	r.GET("/user-services", ctrl.ServiceRequests.MyServices)

	// Template editor
	r.GET("/template-states/:templateId", ctrl.TemplateStates.GetState)
	r.PUT("/template-states/:templateId", ctrl.TemplateStates.SaveState)

	// Registrations brought in by the caller
	r.GET("/registrations", ctrl.Registrations.ListRegistrations)

	r.POST("/upload", ctrl.Uploads.UploadFile)

	// Payments
	r.POST("/payments/intent", ctrl.Payments.CreatePaymentIntent)
	r.POST("/payments/checkout", ctrl.Payments.CreateCheckoutSession)

	// Live feed, browsers pass the ID token as ?token=
	wsAuth := auth
	wsAuth.AllowQueryToken = true
	e.GET("/api/ws", ctrl.WebSocket.Connect, middleware.Authenticate(wsAuth))
}
