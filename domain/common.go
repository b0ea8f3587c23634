package domain

import (
	"errors"
)

const (
	RoleUser = "user"
)

var (
	MessageFailedBodyRequest    = "failed to parse body request"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageAccessDenied         = "access denied: insufficient permissions"
	MessageInternalError        = "internal server error"
	MessageSuccessPing          = "pong, its works"
	MessageSuccessGetCacheStats = "success get cache stats"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrAccessDenied  = errors.New("access denied")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrInvalidLimit  = errors.New("limit must be between 1 and 100")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	// Nutrition per serving. Optional fields stay nil when the model omits them.
	NutritionInfo struct {
		Calories      int      `json:"calories"`
		Protein       float64  `json:"protein"`
		Carbohydrates float64  `json:"carbohydrates"`
		Fat           float64  `json:"fat"`
		Fiber         *float64 `json:"fiber,omitempty"`
		Sugar         *float64 `json:"sugar,omitempty"`
		Sodium        *float64 `json:"sodium,omitempty"`
	}
)
