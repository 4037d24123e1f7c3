package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/chatapp-auth/internal/handler"
	"github.com/iliyamo/chatapp-auth/internal/metrics"
	"github.com/iliyamo/chatapp-auth/internal/middleware"
	"github.com/iliyamo/chatapp-auth/internal/model"
	"github.com/iliyamo/chatapp-auth/internal/service"
)

// Options configures New.
type Options struct {
	Auth        *service.AuthService
	Metrics     *metrics.Metrics
	Log         logrus.FieldLogger
	CORSOrigins []string
}

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if opts.Log != nil {
		e.Use(middleware.RequestLogger(opts.Log))
	}
	if opts.Metrics != nil {
		e.Use(middleware.Metrics(opts.Metrics))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, opts.Metrics)
	RegisterAuth(e, handler.NewAuthHandler(opts.Auth), opts.Auth)
	return e
}

// RegisterRoutes registers routes that do not require authentication: the
// banner, the health check and, when metrics are enabled, /metrics.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the /auth group.  Register and login are public;
// profile routes require a valid access token and the user lookup is
// restricted to admins.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, svc *service.AuthService) {
	g := e.Group("/auth")
	g.GET("/", handler.AuthHealth)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	protect := middleware.Protect(svc)
	g.GET("/profile", a.Profile, protect)
	g.GET("/test-auth", a.Profile, protect)
	g.GET("/users/:id", a.GetUser, protect, middleware.RestrictTo(svc, model.Roles(model.RoleAdmin)))
}
