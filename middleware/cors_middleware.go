package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Origins of the local dashboard and landing page dev servers
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowOrigins []string
}

// NewCORSConfig allows the dev servers plus the comma separated
// CORS_ALLOWED_ORIGINS, skipping blanks and repeats
func NewCORSConfig() *CORSConfig {
	origins := append([]string{}, devOrigins...)
	seen := make(map[string]bool, len(origins))
	for _, o := range origins {
		seen[o] = true
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	return &CORSConfig{AllowOrigins: origins}
}

// GlobalCORS applies the configured origins with credentials. Request ids and
// Retry-After are readable by the browser.
func GlobalCORS(config *CORSConfig) echo.MiddlewareFunc {
	return echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: config.AllowOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, echo.HeaderXRequestedWith, echo.HeaderXRequestID,
		},
		ExposeHeaders:    []string{echo.HeaderContentLength, echo.HeaderXRequestID, echo.HeaderRetryAfter},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
