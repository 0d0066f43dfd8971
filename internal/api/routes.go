package api

import (
	"github.com/bilgisen/regionews/internal/config"
	"github.com/bilgisen/regionews/internal/middleware"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, cfg *config.Config) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API group with versioning
	api := app.Group("/api/v1")
	admin := middleware.AdminOnly(cfg.AdminAPIKey)

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)
	api.Get("/regions", handlers.ListRegions)

	// News endpoints
	news := api.Group("/news")
	{
		news.Post("/refresh", admin, handlers.RefreshAll)
		news.Get("/:region", handlers.GetRegionNews)
		news.Post("/:region/refresh", admin, handlers.RefreshRegion)
		news.Post("/:region/:id/publish", admin, handlers.PublishItem)
	}

	api.Post("/script", admin, middleware.ValidateBody[models.ScriptRequest](), handlers.GenerateScript)

	api.Delete("/admin/published", admin, handlers.ClearPublished)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
