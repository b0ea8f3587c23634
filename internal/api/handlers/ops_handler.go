package handlers

import (
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/api/presenters"
	"recipe-ai-backend/pkg/cache"
	"time"

	"github.com/gofiber/fiber/v2"
)

type (
	OpsHandler interface {
		Ping(c *fiber.Ctx) error
		Health(c *fiber.Ctx) error
		CacheStats(c *fiber.Ctx) error
	}

	opsHandler struct {
		cache   cache.Cache
		version string
	}
)

func NewOpsHandler(c cache.Cache, version string) OpsHandler {
	return &opsHandler{
		cache:   c,
		version: version,
	}
}

func (h *opsHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
}

func (h *opsHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

func (h *opsHandler) CacheStats(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.cache.Stats(c.Context()), fiber.StatusOK, domain.MessageSuccessGetCacheStats)
}
