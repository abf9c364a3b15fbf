package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/fieldproof/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// locationTimeout covers both acquisition attempts (25s + 15s) plus slack.
const locationTimeout = 45 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
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

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/stats", timeout.NewWithContext(StatsHandler(deps), requestTimeout))
	v1.Get("/campaigns", timeout.NewWithContext(ListCampaignsHandler(deps), requestTimeout))
	v1.Post("/campaigns", timeout.NewWithContext(CreateCampaignHandler(deps), requestTimeout))
	v1.Get("/campaigns/filters", timeout.NewWithContext(CampaignFiltersHandler(deps), requestTimeout))
	v1.Get("/campaigns/:id", timeout.NewWithContext(GetCampaignHandler(deps), requestTimeout))
	v1.Get("/campaigns/:id/activities", timeout.NewWithContext(ListActivitiesHandler(deps), requestTimeout))
	v1.Post("/campaigns/:id/activities", timeout.NewWithContext(CaptureHandler(deps), locationTimeout))

	v1.Post("/location/acquire", timeout.NewWithContext(AcquireLocationHandler(deps), locationTimeout))
	v1.Get("/location/status", LocationStatusHandler(deps))

	v1.Get("/coordinates/parse", ParseCoordinateHandler(deps))
	v1.Get("/coordinates/format", FormatCoordinateHandler(deps))

	v1.Get("/map", timeout.NewWithContext(MapViewHandler(deps), requestTimeout))
	v1.Get("/map/qr", timeout.NewWithContext(MapQRHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
