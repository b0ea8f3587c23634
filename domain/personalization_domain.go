package domain

import (
	"errors"
	"time"
)

const (
	EventGenerated = "generated"
	EventViewed    = "viewed"
	EventFavorited = "favorited"
	EventShared    = "shared"
	EventRated     = "rated"

	RecommendationCuisine  = "cuisine_preference"
	RecommendationTrending = "trending"
	RecommendationMood     = "mood"

	TrendDay   = "day"
	TrendWeek  = "week"
	TrendMonth = "month"
)

var (
	MessageSuccessTrackBehavior      = "behavior tracked successfully"
	MessageSuccessGetRecommendations = "success get recommendations"
	MessageSuccessGetTrending        = "success get trending recipes"

	MessageFailedTrackBehavior      = "failed to track behavior"
	MessageFailedGetRecommendations = "failed to get recommendations"
	MessageFailedGetTrending        = "failed to get trending recipes"

	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidMood      = errors.New("invalid mood, valid moods are: comfort, healthy, adventurous, quick, indulgent, light")
)

type (
	TrackBehaviorRequest struct {
		EventType  string         `json:"event_type" validate:"required,oneof=generated viewed favorited shared rated"`
		EventData  map[string]any `json:"event_data"`
		SessionID  string         `json:"session_id,omitempty" validate:"max=100"`
		DeviceType string         `json:"device_type,omitempty" validate:"omitempty,oneof=web mobile tablet"`
	}

	// BehaviorEvent is append-only; it is never updated after it is written.
	BehaviorEvent struct {
		ID         string         `json:"id"`
		UserID     string         `json:"user_id"`
		EventType  string         `json:"event_type"`
		EventData  map[string]any `json:"event_data"`
		Timestamp  time.Time      `json:"timestamp"`
		SessionID  string         `json:"session_id,omitempty"`
		DeviceType string         `json:"device_type"`
	}

	UserBehaviorSummary struct {
		FavoriteCuisines      []string `json:"favorite_cuisines"`
		FrequentIngredients   []string `json:"frequent_ingredients"`
		PreferredDifficulties []string `json:"preferred_difficulties"`
		TotalActivities       int      `json:"total_activities"`
	}

	RecommendationCandidate struct {
		Recipe               Recipe  `json:"recipe"`
		RecommendationReason string  `json:"recommendation_reason"`
		RecommendationType   string  `json:"recommendation_type"`
		RecommendationScore  float64 `json:"recommendation_score"`
	}

	TrendingRecipe struct {
		Recipe        Recipe `json:"recipe"`
		TrendingScore int    `json:"trending_score"`
		TrendPeriod   string `json:"trend_period"`
	}

	RecommendationResponse struct {
		Recommendations []RecommendationCandidate `json:"recommendations"`
		Total           int                       `json:"total"`
		UserID          string                    `json:"user_id"`
	}

	MoodRecommendationResponse struct {
		Recommendations []RecommendationCandidate `json:"recommendations"`
		Total           int                       `json:"total"`
		Mood            string                    `json:"mood"`
		UserID          string                    `json:"user_id"`
	}

	TrendingResponse struct {
		TrendingRecipes []TrendingRecipe `json:"trending_recipes"`
		Total           int              `json:"total"`
		TimePeriod      string           `json:"time_period"`
	}
)
