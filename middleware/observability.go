package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/security"
)

// Metrics records request count and latency per route template
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RequestLogger writes one structured access log line per request
func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if uid := UID(c); uid != "" {
				fields = append(fields, "uid", uid)
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			switch {
			case v.Status >= 500:
				fields = append(fields, "headers", security.RedactHeaders(c.Request().Header))
				logging.Error("Request failed", fields...)
			case v.Status >= 400:
				logging.Warn("Request rejected", fields...)
			default:
				logging.Info("Request handled", fields...)
			}
			return nil
		},
	})
}
