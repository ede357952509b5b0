package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/metrics"
)

// Logging logs every request and records request metrics.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, route, status and duration of each request. Errors are
// rendered here so the logged status is the one sent to the client.
func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		if err := next(c); err != nil {
			c.Error(err)
		}

		duration := time.Since(start)
		status := c.Response().Status
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordRequest(req.Method, route, strconv.Itoa(status), duration)

		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"route", route,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		}
		if status >= 500 {
			l.logger.Error("HTTP request completed", args...)
		} else {
			l.logger.Info("HTTP request completed", args...)
		}

		return nil
	}
}
