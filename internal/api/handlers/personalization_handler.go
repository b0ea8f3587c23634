package handlers

import (
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/api/presenters"
	"recipe-ai-backend/pkg/personalization"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PersonalizationHandler interface {
		TrackBehavior(c *fiber.Ctx) error
		GetRecommendations(c *fiber.Ctx) error
		GetTrending(c *fiber.Ctx) error
		GetMoodRecommendations(c *fiber.Ctx) error
	}

	personalizationHandler struct {
		personalizationService personalization.PersonalizationService
		validator              *validator.Validate
	}
)

func NewPersonalizationHandler(personalizationService personalization.PersonalizationService, validator *validator.Validate) PersonalizationHandler {
	return &personalizationHandler{
		personalizationService: personalizationService,
		validator:              validator,
	}
}

func (h *personalizationHandler) TrackBehavior(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.TrackBehaviorRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedTrackBehavior, err)
	}

	res, err := h.personalizationService.TrackBehavior(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedTrackBehavior, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessTrackBehavior)
}

func (h *personalizationHandler) GetRecommendations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	recs := h.personalizationService.GetRecommendations(c.Context(), userID, queryLimit(c, 10))

	return presenters.SuccessResponse(c, domain.RecommendationResponse{
		Recommendations: recs,
		Total:           len(recs),
		UserID:          userID,
	}, fiber.StatusOK, domain.MessageSuccessGetRecommendations)
}

func (h *personalizationHandler) GetTrending(c *fiber.Ctx) error {
	window := personalization.NormalizeWindow(c.Query("time_period", "week"))

	trending, err := h.personalizationService.GetTrending(c.Context(), window, queryLimit(c, 10))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetTrending, err)
	}

	return presenters.SuccessResponse(c, domain.TrendingResponse{
		TrendingRecipes: trending,
		Total:           len(trending),
		TimePeriod:      window,
	}, fiber.StatusOK, domain.MessageSuccessGetTrending)
}

func (h *personalizationHandler) GetMoodRecommendations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	mood := c.Params("mood")

	recs, err := h.personalizationService.GetMoodRecommendations(c.Context(), userID, mood, queryLimit(c, 10))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetRecommendations, err)
	}

	return presenters.SuccessResponse(c, domain.MoodRecommendationResponse{
		Recommendations: recs,
		Total:           len(recs),
		Mood:            mood,
		UserID:          userID,
	}, fiber.StatusOK, domain.MessageSuccessGetRecommendations)
}
