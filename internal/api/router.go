package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shyaka/todo-backend/docs"
	"github.com/shyaka/todo-backend/internal/api/handler"
	"github.com/shyaka/todo-backend/internal/api/middleware"
	"github.com/shyaka/todo-backend/internal/core/ports"
	"github.com/shyaka/todo-backend/internal/core/service"
)

// Deps carries everything the router needs to wire handlers.
type Deps struct {
	Users ports.UserRepository
	Tasks ports.TaskRepository
	// Idempotency is optional; nil disables Idempotency-Key handling.
	Idempotency service.IdempotencyStore
	Auth        service.AuthOptions
	Logger      zerolog.Logger
	// Registry receives the HTTP request metrics. A fresh registry is used when nil.
	Registry     *prometheus.Registry
	AllowOrigins []string
	// Checks are the readiness probes served on /health/ready.
	Checks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/api-docs")
		},
	}))

	// --- Dependencies ---
	authService := service.NewAuthService(deps.Users, deps.Auth, deps.Logger)
	taskService := service.NewTaskService(deps.Tasks, deps.Idempotency, deps.Logger)
	authHandler := handler.NewAuthHandler(authService, deps.Logger)
	taskHandler := handler.NewTaskHandler(taskService, deps.Logger)
	auth := middleware.Auth(authService)

	e.GET("/", handler.Welcome)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.GET("/userinfo", authHandler.UserInfo, auth)

	// --- Todo routes (bearer token required) ---
	todos := e.Group("/todos", auth)
	todos.POST("", taskHandler.Create)
	todos.GET("", taskHandler.List)
	todos.GET("/:userId", taskHandler.ListByOwner, middleware.Owner("userId"))
	todos.PUT("/:id", taskHandler.Update)
	todos.DELETE("/:id", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks).Readiness)

	// --- Metrics and API docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/api-docs", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
	})
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
