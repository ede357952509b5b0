package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/codeauth-server/internal/api/http/handler"
	"github.com/dtroode/codeauth-server/internal/api/http/middleware"
	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
	"github.com/dtroode/codeauth-server/internal/service"
)

// Router wires handlers and middleware into an echo instance.
type Router struct {
	authService    *service.Auth
	contextManager model.ContextManager
	pingers        map[string]model.Pinger
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService *service.Auth,
	contextManager model.ContextManager,
	pingers map[string]model.Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		contextManager: contextManager,
		pingers:        pingers,
		logger:         logger,
	}
}

// Register builds the echo instance serving every route.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(r.logger)

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	e.Use(echomw.RequestID())
	e.Use(logging.Handle)
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("64K"))

	health := handler.NewHealth(r.pingers, r.logger)
	e.GET("/healthz", health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	r.registerAuthRoutes(api)
	r.registerUserRoutes(api.Group("/users", authenticate.Handle))

	return e
}

func (r *Router) registerAuthRoutes(g *echo.Group) {
	auth := handler.NewAuth(r.authService, r.logger)
	g.POST("/auth/login", auth.Login)
	g.POST("/auth/verify", auth.Verify)
}

func (r *Router) registerUserRoutes(g *echo.Group) {
	user := handler.NewUser(r.contextManager, r.logger)
	g.GET("/me", user.Me)
}
