package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bahath/jobz-web/internal/api/handler"
	"github.com/bahath/jobz-web/internal/api/middleware"
	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Sessions   middleware.SessionAcquirer
	Cookie     middleware.BrowserConfig
	APIBaseURL string
	Readiness  map[string]handlers.Pinger
	Log        zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "jobz",
		Registerer: deps.Registerer,
	}))

	// --- Operational endpoints (no browser session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Everything below is tied to a browser ---
	proxyHandler, err := handler.NewProxyHandler(deps.APIBaseURL, "/api", deps.Log)
	if err != nil {
		return nil, err
	}
	sessionHandler := handler.NewSessionHandler()
	screens := handler.NewScreenHandler()

	b := e.Group("", middleware.Browser(deps.Sessions, deps.Cookie))

	// --- Session store ---
	b.GET("/session", sessionHandler.Get)
	b.POST("/session/login", sessionHandler.Login)
	b.POST("/session/register", sessionHandler.Register)
	b.POST("/session/logout", sessionHandler.Logout)
	b.POST("/session/refresh", sessionHandler.Refresh)

	// --- Public screens ---
	b.GET("/", screens.Home)
	b.GET(middleware.LoginPath, screens.Public("login", "Sign in", true))
	b.GET("/auth/register", screens.Public("register", "Create account", true))
	b.GET(middleware.UnauthorizedPath, screens.Public("unauthorized", "Access denied", false))

	// --- Guarded screens ---
	b.GET("/admin/dashboard", screens.Protected("admin_dashboard", "Admin dashboard"),
		middleware.RequireSession(domain.RoleSuperAdmin))
	b.GET("/employer/dashboard", screens.Protected("employer_dashboard", "Employer dashboard"),
		middleware.RequireSession(domain.RoleEmployer))
	b.GET("/dashboard", screens.Protected("job_seeker_dashboard", "Dashboard"),
		middleware.RequireSession(domain.RoleJobSeeker), middleware.RequireInterests())
	b.GET(middleware.InterestsPath, screens.Protected("interests", "Pick your interests"),
		middleware.RequireSession(domain.RoleJobSeeker))
	b.GET("/profile", screens.Protected("profile", "Profile"),
		middleware.RequireSession())

	// --- REST API pass-through ---
	b.Any("/api/*", proxyHandler.Forward, middleware.RequireSessionAPI())

	return e, nil
}
