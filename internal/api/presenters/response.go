package presenters

import (
	"errors"
	"recipe-ai-backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the failure envelope. Server errors never expose err.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if statusCode >= fiber.StatusInternalServerError {
		res.Error = domain.MessageInternalError
	} else if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

var (
	badRequest = []error{
		domain.ErrNoIngredients,
		domain.ErrTooManyIngredients,
		domain.ErrInvalidLimit,
		domain.ErrInvalidRating,
		domain.ErrInvalidShareMethod,
		domain.ErrRecipientRequired,
		domain.ErrCollectionNameNeeded,
		domain.ErrInvalidEventType,
		domain.ErrInvalidMood,
		domain.ErrInvalidImage,
		domain.ErrEmptyShoppingList,
		domain.ErrParseUUID,
	}
	notFound = []error{
		domain.ErrRecipeNotFound,
		domain.ErrUserNotFound,
		domain.ErrProfileNotFound,
		domain.ErrInteractionNotFound,
	}
	unauthorized = []error{
		domain.ErrCredentialsNotMatch,
		domain.ErrTokenNotFound,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
	}
	forbidden = []error{
		domain.ErrAccessDenied,
		domain.ErrUnauthorizedRecipeAccess,
	}
)

// StatusFromError maps a service error to the HTTP status it should surface as.
func StatusFromError(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &verrs):
		return fiber.StatusBadRequest
	case matches(err, badRequest):
		return fiber.StatusBadRequest
	case matches(err, notFound):
		return fiber.StatusNotFound
	case matches(err, unauthorized):
		return fiber.StatusUnauthorized
	case matches(err, forbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
