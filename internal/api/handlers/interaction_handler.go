package handlers

import (
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/api/presenters"
	"recipe-ai-backend/pkg/interaction"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InteractionHandler interface {
		SaveRecipe(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
		RateRecipe(c *fiber.Ctx) error
		ShareRecipe(c *fiber.Ctx) error
		CreateCollection(c *fiber.Ctx) error
		TrackView(c *fiber.Ctx) error
		GetFavorites(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
	}

	interactionHandler struct {
		interactionService interaction.InteractionService
		validator          *validator.Validate
	}
)

func NewInteractionHandler(interactionService interaction.InteractionService, validator *validator.Validate) InteractionHandler {
	return &interactionHandler{
		interactionService: interactionService,
		validator:          validator,
	}
}

// parseBody decodes and validates the JSON body into req, writing the error
// response itself when it fails.
func (h *interactionHandler) parseBody(c *fiber.Ctx, req any, failed string) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return false, presenters.ErrorResponse(c, fiber.StatusBadRequest, failed, err)
	}
	return true, nil
}

func (h *interactionHandler) SaveRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SaveRecipeRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedSaveRecipe); !ok {
		return err
	}

	res, err := h.interactionService.SaveRecipe(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedSaveRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSaveRecipe)
}

func (h *interactionHandler) ToggleFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.FavoriteRecipeRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedToggleFavorite); !ok {
		return err
	}

	res, err := h.interactionService.ToggleFavorite(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedToggleFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessToggleFavorite)
}

func (h *interactionHandler) RateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RateRecipeRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedRateRecipe); !ok {
		return err
	}

	res, err := h.interactionService.RateRecipe(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedRateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRateRecipe)
}

func (h *interactionHandler) ShareRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.ShareRecipeRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedShareRecipe); !ok {
		return err
	}

	res, err := h.interactionService.ShareRecipe(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedShareRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessShareRecipe)
}

func (h *interactionHandler) CreateCollection(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateCollectionRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedCreateCollection); !ok {
		return err
	}

	res, err := h.interactionService.CreateCollection(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedCreateCollection, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCollection)
}

func (h *interactionHandler) TrackView(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.TrackViewRequest)
	if ok, err := h.parseBody(c, req, domain.MessageFailedTrackView); !ok {
		return err
	}

	res, err := h.interactionService.TrackRecipeView(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedTrackView, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessTrackView)
}

func (h *interactionHandler) GetFavorites(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.interactionService.GetFavorites(c.Context(), userID, queryLimit(c, 20))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetFavorites, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"favorites": res,
		"total":     len(res),
	}, fiber.StatusOK, domain.MessageSuccessGetFavorites)
}

func (h *interactionHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.interactionService.GetRecipeHistory(c.Context(), userID, queryLimit(c, 20), queryOffset(c))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *interactionHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.interactionService.GetUserStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}
