// middleware/auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

// Context keys set by Authenticate
const (
	ContextUID  = "uid"
	ContextRole = "role"
)

// TokenVerifier checks Firebase ID tokens
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// ProfileLookup resolves the stored profile of a Firebase user
type ProfileLookup interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
}

type AuthConfig struct {
	Verifier TokenVerifier
	Profiles ProfileLookup
	// ServiceSecret enables HS256 service tokens when AllowServiceTokens is set
	ServiceSecret      string
	AllowServiceTokens bool
	// AllowQueryToken reads the token from ?token= when no header is sent.
	// Browsers cannot set headers on websocket upgrades.
	AllowQueryToken bool
}

// Authenticate resolves the bearer token into a uid and role
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" && cfg.AllowQueryToken {
				token = c.QueryParam("token")
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Error:   "missing authorization token",
				})
			}

			if cfg.AllowServiceTokens {
				if claims, err := ParseServiceToken(cfg.ServiceSecret, token); err == nil {
					c.Set(ContextUID, claims.Subject)
					c.Set(ContextRole, models.RoleService)
					return next(c)
				}
			}

			if cfg.Verifier == nil {
				return c.JSON(http.StatusServiceUnavailable, models.Response{
					Success: false,
					Error:   "authentication is not configured",
				})
			}

			ctx := c.Request().Context()
			idToken, err := cfg.Verifier.VerifyIDToken(ctx, token)
			if err != nil {
				logging.Debug("ID token rejected", "path", c.Path(), "error", err)
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Error:   "invalid or expired token",
				})
			}

			role, _ := idToken.Claims["role"].(string)
			if role == "" && cfg.Profiles != nil {
				profile, err := cfg.Profiles.FindByUID(ctx, idToken.UID)
				if err == nil {
					role = profile.Role
				} else {
					logging.Warn("Profile lookup failed during authentication", "uid", idToken.UID, "error", err)
				}
			}
			if role == "" {
				role = models.RoleClient
			}

			c.Set(ContextUID, idToken.UID)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// RequireRole allows only the listed roles through
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := Role(c)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Success: false,
					Error:   "authentication required",
				})
			}
			for _, r := range allowed {
				if r == role {
					return next(c)
				}
			}
			logging.Info("Access denied", "path", c.Path(), "role", role)
			return c.JSON(http.StatusForbidden, models.Response{
				Success: false,
				Error:   "access denied for your role",
			})
		}
	}
}

// UID returns the authenticated uid, empty when unauthenticated
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

// Role returns the authenticated role, empty when unauthenticated
func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
