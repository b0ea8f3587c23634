package handlers

import (
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/api/presenters"
	"recipe-ai-backend/pkg/ingredient"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		Search(c *fiber.Ctx) error
		GetCategories(c *fiber.Ctx) error
		GetPopular(c *fiber.Ctx) error
		GetPairings(c *fiber.Ctx) error
		CreateShoppingList(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
		validator         *validator.Validate
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService, validator *validator.Validate) IngredientHandler {
	return &ingredientHandler{
		ingredientService: ingredientService,
		validator:         validator,
	}
}

func (h *ingredientHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")

	res, err := h.ingredientService.Search(c.Context(), query, queryLimit(c, 20))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedSearchIngredients, err)
	}

	return presenters.SuccessResponse(c, domain.IngredientSearchResponse{
		Ingredients: res,
		Total:       len(res),
		Query:       query,
	}, fiber.StatusOK, domain.MessageSuccessSearchIngredients)
}

func (h *ingredientHandler) GetCategories(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{
		"categories": h.ingredientService.Categories(),
	}, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *ingredientHandler) GetPopular(c *fiber.Ctx) error {
	res := h.ingredientService.Popular(queryLimit(c, 10))

	return presenters.SuccessResponse(c, fiber.Map{
		"ingredients": res,
		"total":       len(res),
	}, fiber.StatusOK, domain.MessageSuccessGetPopular)
}

func (h *ingredientHandler) GetPairings(c *fiber.Ctx) error {
	req := new(domain.PairingRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	res := h.ingredientService.Pairings(req.Ingredients, req.Limit)

	return presenters.SuccessResponse(c, fiber.Map{
		"pairings": res,
		"total":    len(res),
	}, fiber.StatusOK, domain.MessageSuccessGetPairings)
}

func (h *ingredientHandler) CreateShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateShoppingListRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateShoppingList, err)
	}

	res, err := h.ingredientService.CreateShoppingList(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedCreateShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateShoppingList)
}
