package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HSouheill/webinar_backend/config"
	"github.com/HSouheill/webinar_backend/controllers"
	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/repositories"
	"github.com/HSouheill/webinar_backend/routes"
	"github.com/HSouheill/webinar_backend/services"
	"github.com/HSouheill/webinar_backend/utils"
	"github.com/HSouheill/webinar_backend/websocket"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = os.Getenv("ENV")
	}
	if err := logging.Init(appEnv); err != nil {
		panic(err)
	}
	defer logging.Close()

	if envErr != nil {
		logging.Warn(".env file not found, using process environment")
	}

	ctx := context.Background()

	fb, err := config.InitFirebase(ctx)
	if err != nil {
		logging.Fatal("Failed to initialize Firebase", "error", err)
	}
	defer fb.Close()

	redisClient := config.ConnectRedis()

	client := config.ConnectDB()
	db := client.Database(config.DBName())

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	profileRepo := repositories.NewProfileRepository(fb.Firestore)
	packageRepo := repositories.NewPackageRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	serviceRequestRepo := repositories.NewServiceRequestRepository(db)
	userServiceRepo := repositories.NewUserServiceRepository(db)
	templateStateRepo := repositories.NewTemplateStateRepository(db)
	registrationRepo := repositories.NewRegistrationRepository(db)
	keyValueRepo := repositories.NewKeyValueRepository(db)
	qrCodeRepo := repositories.NewQRCodeRepository(db)

	// Optional integrations stay nil interfaces when not configured
	var mailer services.Mailer
	if m := services.NewSMTPMailer(); m != nil {
		mailer = m
	}
	var gateway services.PaymentGateway
	if g := services.NewStripeGateway(); g != nil {
		gateway = g
	}
	var push services.PushSender
	if fb.Messaging != nil {
		push = fb.Messaging
	}

	// Services
	packageCache := services.NewPackageCache(packageRepo, 10*time.Minute)
	settingsService := services.NewSettingsService(keyValueRepo, redisClient)
	referralService := services.NewReferralService(profileRepo)
	commissionService := services.NewCommissionService(profileRepo, referralService, packageCache, settingsService)
	notificationService := services.NewNotificationService(profileRepo, wsHub, push)
	registrationService := services.NewRegistrationService(registrationRepo, mailer, notificationService)
	serviceRequestService := services.NewServiceRequestService(serviceRepo, serviceRequestRepo, userServiceRepo)
	qrService := services.NewQRService(qrCodeRepo)
	paymentService := services.NewPaymentService(gateway, profileRepo, packageCache)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "public/uploads"
	}
	fileStorage, err := utils.NewFileStorage(uploadDir, "/uploads")
	if err != nil {
		logging.Fatal("Failed to prepare upload directory", "dir", uploadDir, "error", err)
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	ctrl := routes.Controllers{
		Packages:        controllers.NewPackageController(packageRepo, packageCache),
		Services:        controllers.NewServiceController(serviceRepo),
		ServiceRequests: controllers.NewServiceRequestController(serviceRequestService),
		TemplateStates:  controllers.NewTemplateStateController(templateStateRepo),
		Registrations:   controllers.NewRegistrationController(registrationService, profileRepo),
		KeyValues:       controllers.NewKeyValueController(settingsService),
		Commissions:     controllers.NewCommissionController(commissionService, settingsService),
		Profiles:        controllers.NewProfileController(profileRepo, referralService),
		QRCodes:         controllers.NewQRCodeController(qrCodeRepo, qrService, baseURL),
		Uploads:         controllers.NewUploadController(fileStorage),
		Payments:        controllers.NewPaymentController(paymentService),
		Email:           controllers.NewEmailController(mailer),
		WebSocket:       controllers.NewWebSocketController(wsHub),
	}

	authConfig := middleware.AuthConfig{
		Verifier:      fb.Auth,
		Profiles:      profileRepo,
		ServiceSecret: os.Getenv("INTERNAL_API_SECRET"),
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()
	e.HTTPErrorHandler = controllers.HTTPErrorHandler

	rateLimiter := middleware.NewRateLimiter()
	corsConfig := middleware.NewCORSConfig()

	// Middleware
	e.Pre(httpsRedirect())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(middleware.GlobalCORS(corsConfig))
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.RequireContentType())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfigFromCORS(corsConfig, appEnv == "production")))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Webinar Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "healthy", "database": "connected", "cache": "disabled"}
		code := http.StatusOK
		if err := client.Ping(ctx, nil); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			status["cache"] = "connected"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status["cache"] = "unreachable"
			}
		}
		return c.JSON(code, status)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	routes.SetupRoutes(e, ctrl, authConfig, uploadDir)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		logging.Info("Server starting", "port", port, "env", appEnv)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logging.Fatal("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logging.Error("Failed to disconnect MongoDB", "error", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
