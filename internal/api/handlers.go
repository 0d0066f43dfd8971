package api

import (
	"errors"
	"time"

	"github.com/bilgisen/regionews/internal/ai"
	"github.com/bilgisen/regionews/internal/cache"
	"github.com/bilgisen/regionews/internal/feed"
	"github.com/bilgisen/regionews/internal/logger"
	"github.com/bilgisen/regionews/internal/middleware"
	"github.com/bilgisen/regionews/internal/models"
	"github.com/bilgisen/regionews/internal/publish"
	"github.com/bilgisen/regionews/internal/region"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type Handlers struct {
	news      *ai.NewsService
	feeds     *feed.Manager
	publisher *publish.Publisher
	store     cache.Store
	aiReady   bool
}

// NewHandlers wires the handlers. publisher may be nil when Telegram is not configured.
func NewHandlers(news *ai.NewsService, feeds *feed.Manager, publisher *publish.Publisher, store cache.Store, aiReady bool) *Handlers {
	return &Handlers{
		news:      news,
		feeds:     feeds,
		publisher: publisher,
		store:     store,
		aiReady:   aiReady,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ok",
		"version":          "1.0.0",
		"ai_configured":    h.aiReady,
		"telegram_enabled": h.publisher != nil,
		"time":             time.Now().Format(time.RFC3339),
	})
}

// ListRegions handles GET /api/v1/regions
func (h *Handlers) ListRegions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"regions": region.All(),
	})
}

// GetRegionNews handles GET /api/v1/news/:region
func (h *Handlers) GetRegionNews(c *fiber.Ctx) error {
	state, err := h.feeds.State(c.UserContext(), c.Params("region"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

// RefreshRegion handles POST /api/v1/news/:region/refresh
func (h *Handlers) RefreshRegion(c *fiber.Ctx) error {
	state, err := h.feeds.Refresh(c.UserContext(), c.Params("region"))
	if err != nil {
		return respondError(c, err, state)
	}
	return c.JSON(state)
}

// RefreshAll handles POST /api/v1/news/refresh
func (h *Handlers) RefreshAll(c *fiber.Ctx) error {
	states, errs := h.feeds.RefreshAll(c.UserContext())

	return c.JSON(fiber.Map{
		"states": states,
		"errors": lo.MapValues(errs, func(err error, _ string) string {
			return err.Error()
		}),
	})
}

// PublishItem handles POST /api/v1/news/:region/:id/publish
func (h *Handlers) PublishItem(c *fiber.Ctx) error {
	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Telegram publishing is not configured",
		})
	}

	regionKey := c.Params("region")
	item, err := h.feeds.FindItem(c.UserContext(), regionKey, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	r, _ := region.Lookup(regionKey)
	messageID, err := h.publisher.Publish(c.UserContext(), r.Key, item)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     "published",
		"id":         item.ID,
		"message_id": messageID,
	})
}

// GenerateScript handles POST /api/v1/script
func (h *Handlers) GenerateScript(c *fiber.Ctx) error {
	req, ok := middleware.Validated[models.ScriptRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	script, err := h.news.GenerateScript(c.UserContext(), *req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"script": script,
	})
}

// ClearPublished handles DELETE /api/v1/admin/published
func (h *Handlers) ClearPublished(c *fiber.Ctx) error {
	if err := h.store.ClearProcessed(c.UserContext()); err != nil {
		logger.Get().Error().Err(err).Msg("Error clearing published markers")
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{
		"status": "cleared",
	})
}

type errorKind struct {
	target error
	status int
	kind   string
}

// errorKinds maps domain errors to HTTP responses, first match wins
var errorKinds = []errorKind{
	{ai.ErrUnknownRegion, fiber.StatusNotFound, "unknown_region"},
	{feed.ErrItemNotFound, fiber.StatusNotFound, "item_not_found"},
	{feed.ErrRegionBusy, fiber.StatusConflict, "region_busy"},
	{ai.ErrMissingCredential, fiber.StatusServiceUnavailable, "missing_credential"},
	{ai.ErrProviderError, fiber.StatusBadGateway, "provider_error"},
	{ai.ErrMalformedData, fiber.StatusUnprocessableEntity, "malformed_data"},
	{ai.ErrUnexpectedShape, fiber.StatusUnprocessableEntity, "unexpected_shape"},
	{publish.ErrEmptyDraft, fiber.StatusUnprocessableEntity, "empty_draft"},
	{publish.ErrAlreadyPublished, fiber.StatusConflict, "already_published"},
}

// respondError renders a domain error. An optional region state is included so
// the client can keep showing the previous batch.
func respondError(c *fiber.Ctx, err error, state ...models.RegionState) error {
	kind, ok := lo.Find(errorKinds, func(k errorKind) bool {
		return errors.Is(err, k.target)
	})
	if !ok {
		return err
	}

	body := fiber.Map{
		"error": err.Error(),
		"kind":  kind.kind,
	}
	if len(state) > 0 && state[0].Region != "" {
		body["state"] = state[0]
	}
	return c.Status(kind.status).JSON(body)
}
