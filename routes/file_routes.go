package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

// RegisterFileRoutes serves uploaded files from dir under /uploads
func RegisterFileRoutes(e *echo.Echo, dir string) {
	e.GET("/uploads/*", ServeFile(dir))
}

// ServeFile handles serving uploaded files with proper security checks
func ServeFile(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Param("*")
		if path == "" {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Error:   "file not found",
			})
		}

		// Clean the path to prevent directory traversal
		cleanPath := filepath.Clean("/" + path)
		if strings.Contains(cleanPath, "..") {
			return c.JSON(http.StatusForbidden, models.Response{
				Success: false,
				Error:   "access denied",
			})
		}

		fullPath := filepath.Join(dir, cleanPath)
		info, err := os.Stat(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				return c.JSON(http.StatusNotFound, models.Response{
					Success: false,
					Error:   "file not found",
				})
			}
			logging.Error("Error accessing uploaded file", "path", fullPath, "error", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Success: false,
				Error:   "error accessing file",
			})
		}

		// Don't allow directory listing
		if info.IsDir() {
			return c.JSON(http.StatusForbidden, models.Response{
				Success: false,
				Error:   "access denied",
			})
		}

		// Upload names are unique, so files never change
		c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		c.Response().Header().Set("Expires", time.Now().AddDate(1, 0, 0).Format(http.TimeFormat))

		return c.File(fullPath)
	}
}
