// middleware/security_headers.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/security"
)

type SecurityConfig struct {
	AllowedDomains []string
	AllowInlineJS  bool
	// HSTS is only sent when the deployment terminates TLS
	HSTS bool
}

// SecurityConfigFromCORS reuses the CORS origins as connect-src sources
func SecurityConfigFromCORS(cors *CORSConfig, hsts bool) SecurityConfig {
	domains := make([]string, 0, len(cors.AllowOrigins))
	for _, origin := range cors.AllowOrigins {
		if strings.HasPrefix(origin, "https://") {
			domains = append(domains, origin)
		}
	}
	return SecurityConfig{AllowedDomains: domains, HSTS: hsts}
}

func SecurityHeadersWithConfig(config SecurityConfig) echo.MiddlewareFunc {
	csp := buildCSP(config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			if config.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'self'",
		"img-src 'self' data: https:",
		"media-src 'self' https:",
		"style-src 'self' 'unsafe-inline'",
		"frame-ancestors 'none'",
	}

	if config.AllowInlineJS {
		csp = append(csp, "script-src 'self' 'unsafe-inline'")
	} else {
		csp = append(csp, "script-src 'self'")
	}

	if len(config.AllowedDomains) > 0 {
		csp = append(csp, "connect-src 'self' "+strings.Join(config.AllowedDomains, " "))
	}

	return strings.Join(csp, "; ")
}

// RequireContentType rejects bodies the API cannot decode with 415
func RequireContentType() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				return next(c)
			}
			if req.ContentLength == 0 {
				return next(c)
			}
			if !security.ValidateContentType(req.Header.Get(echo.HeaderContentType)) {
				return c.JSON(http.StatusUnsupportedMediaType, models.Response{
					Success: false,
					Error:   "unsupported content type",
				})
			}
			return next(c)
		}
	}
}
