package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
)

const healthTimeout = 2 * time.Second

// HealthResponse reports the state of each dependency.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health pings the server's dependencies.
type Health struct {
	pingers map[string]model.Pinger
	logger  *logger.Logger
}

func NewHealth(pingers map[string]model.Pinger, logger *logger.Logger) *Health {
	return &Health{pingers: pingers, logger: logger}
}

// Check answers 200 when every dependency responds and 503 otherwise.
func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		checks  = make(map[string]string, len(h.pingers))
	)
	for name, pinger := range h.pingers {
		wg.Add(1)
		go func(name string, p model.Pinger) {
			defer wg.Done()
			err := p.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				checks[name] = "unavailable"
				h.logger.Warn("Health handler: dependency unavailable",
					"dependency", name,
					"error", err.Error())
				return
			}
			checks[name] = "ok"
		}(name, pinger)
	}
	wg.Wait()

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Checks: checks})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}
