package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/garagehub/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	near := timeout.NewWithContext(NearbyGaragesHandler(deps), requestTimeout)
	byService := timeout.NewWithContext(GaragesByServiceHandler(deps), requestTimeout)

	v1 := app.Group("/v1")
	v1.Get("/garages-near", near)
	v1.Get("/garages-by-service/:serviceId", byService)
	v1.Get("/garages", timeout.NewWithContext(ListGaragesHandler(deps), requestTimeout))
	v1.Get("/garages/:id", timeout.NewWithContext(GetGarageHandler(deps), requestTimeout))
	v1.Get("/garages/:id/route", timeout.NewWithContext(GarageRouteHandler(deps), requestTimeout))
	v1.Get("/services", timeout.NewWithContext(ListServicesHandler(deps), requestTimeout))
	v1.Get("/services/:id", timeout.NewWithContext(GetServiceHandler(deps), requestTimeout))

	// Paths the first web client still calls
	legacy := app.Group("/api/garage", DeprecationMiddleware(legacyRoutes))
	legacy.Get("/nearby", near)
	legacy.Get("/Garage/:serviceId", byService)

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	SetupDocs(app)
}
