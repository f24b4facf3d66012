package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/breathify/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, querySvc *service.QueryService, repo service.QueryLogRepository, sessions *session.Store, loc *time.Location) {
	handler := NewHandler(querySvc, repo, sessions, loc)

	// Health check
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Page
	app.Get("/", handler.Index)
	app.Post("/check", handler.Check)
	app.Get("/audio/:lang", handler.Audio)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/advisory", handler.CheckAPI)
		api.Get("/advisory/preview", handler.PreviewAdvisory)
	}
}

// NewSessionStore keeps one session per browser in memory
func NewSessionStore(ttl time.Duration, secure bool) *session.Store {
	return session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:breathify_session",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
	})
}
