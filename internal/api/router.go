package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/Prantik009/accusitions/docs"
	"github.com/Prantik009/accusitions/internal/api/handler"
	"github.com/Prantik009/accusitions/internal/api/middleware"
	"github.com/Prantik009/accusitions/internal/api/metrics"
	"github.com/Prantik009/accusitions/internal/core/domain"
)

// Deps is everything the router needs from the composition root.
type Deps struct {
	Auth       *handler.AuthHandler
	Health     *handler.HealthHandler
	Readiness  *handler.HealthDependenciesHandler
	Tokens     middleware.TokenVerifier
	CookieName string
	// AllowOrigins configures CORS. Empty allows any origin.
	AllowOrigins []string
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// default prometheus registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     allowOrigins(d.AllowOrigins),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: len(d.AllowOrigins) > 0,
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metrics.Namespace,
		Registerer: registerer,
	}))

	// --- Informational and health probes (no auth required) ---
	e.GET("/", d.Health.Root)
	e.GET("/api", d.Health.APIInfo)
	e.GET("/health", d.Health.Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/signin", d.Auth.Signin)
	auth.POST("/signout", d.Auth.Signout)

	requireSession := middleware.Auth(d.Tokens, d.CookieName)
	auth.GET("/me", d.Auth.Me, requireSession)
	auth.GET("/admin/ping", d.Auth.AdminPing, requireSession, middleware.RBAC(domain.RoleAdmin))

	return e
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// requestLogger emits one zerolog entry per request. Bodies and cookies are
// never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
