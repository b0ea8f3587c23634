package domain

import (
	"errors"
	"time"
)

const (
	ActionGenerated = "generated"
	ActionSaved     = "saved"
	ActionFavorited = "favorited"
	ActionShared    = "shared"
	ActionRated     = "rated"
	ActionViewed    = "viewed"

	ShareLink      = "link"
	ShareEmail     = "email"
	ShareSocial    = "social"
	ShareExportPDF = "export_pdf"
	SharePrint     = "print"
)

var (
	MessageSuccessSaveRecipe       = "recipe saved successfully"
	MessageSuccessToggleFavorite   = "favorite updated successfully"
	MessageSuccessRateRecipe       = "recipe rated successfully"
	MessageSuccessShareRecipe      = "recipe shared successfully"
	MessageSuccessGetFavorites     = "success get favorite recipes"
	MessageSuccessGetHistory       = "success get recipe history"
	MessageSuccessGetStats         = "success get user stats"
	MessageSuccessCreateCollection = "collection created successfully"
	MessageSuccessTrackView        = "recipe view tracked"

	MessageFailedSaveRecipe       = "failed to save recipe"
	MessageFailedToggleFavorite   = "failed to update favorite"
	MessageFailedRateRecipe       = "failed to rate recipe"
	MessageFailedShareRecipe      = "failed to share recipe"
	MessageFailedGetFavorites     = "failed to get favorite recipes"
	MessageFailedGetHistory       = "failed to get recipe history"
	MessageFailedGetStats         = "failed to get user stats"
	MessageFailedCreateCollection = "failed to create collection"
	MessageFailedTrackView        = "failed to track recipe view"

	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidShareMethod   = errors.New("invalid share method")
	ErrRecipientRequired    = errors.New("recipient email is required for email sharing")
	ErrInteractionNotFound  = errors.New("recipe interaction not found")
	ErrCollectionNameNeeded = errors.New("collection name is required")
)

type (
	SaveRecipeRequest struct {
		RecipeID string   `json:"recipe_id" validate:"required,max=100"`
		Notes    string   `json:"notes,omitempty" validate:"max=1000"`
		Tags     []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	}

	FavoriteRecipeRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,max=100"`
	}

	RateRecipeRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,max=100"`
		Rating   int    `json:"rating" validate:"required,min=1,max=5"`
		Notes    string `json:"notes,omitempty" validate:"max=1000"`
	}

	ShareRecipeRequest struct {
		RecipeID       string `json:"recipe_id" validate:"required,max=100"`
		ShareMethod    string `json:"share_method" validate:"required,oneof=link email social export_pdf print"`
		RecipientEmail string `json:"recipient_email,omitempty" validate:"omitempty,email"`
		Message        string `json:"message,omitempty" validate:"max=500"`
		ExpiresInDays  int    `json:"expires_in_days,omitempty" validate:"gte=0,lte=365"`
	}

	CreateCollectionRequest struct {
		Name        string   `json:"name" validate:"required,min=1,max=100"`
		Description string   `json:"description,omitempty" validate:"max=500"`
		RecipeIDs   []string `json:"recipe_ids" validate:"max=200"`
		IsPublic    bool     `json:"is_public"`
	}

	TrackViewRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,max=100"`
	}

	// UserRecipeInteraction is keyed by the (user_id, recipe_id) pair.
	UserRecipeInteraction struct {
		ID           string    `json:"id"`
		UserID       string    `json:"user_id"`
		RecipeID     string    `json:"recipe_id"`
		IsFavorite   bool      `json:"is_favorite"`
		Rating       *int      `json:"rating"`
		Notes        string    `json:"notes"`
		Tags         []string  `json:"tags"`
		AccessCount  int       `json:"access_count"`
		LastAccessed time.Time `json:"last_accessed"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	RecipeHistoryEntry struct {
		ID         string         `json:"id"`
		UserID     string         `json:"user_id"`
		RecipeID   string         `json:"recipe_id"`
		RecipeData Recipe         `json:"recipe_data"`
		Action     string         `json:"action"`
		Timestamp  time.Time      `json:"timestamp"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}

	RecipeCollection struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		RecipeIDs   []string  `json:"recipe_ids"`
		IsPublic    bool      `json:"is_public"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	RecipeShare struct {
		ID             string     `json:"id"`
		RecipeID       string     `json:"recipe_id"`
		SharedByUserID string     `json:"shared_by_user_id"`
		ShareMethod    string     `json:"share_method"`
		RecipientEmail string     `json:"recipient_email,omitempty"`
		ShareLink      string     `json:"share_link"`
		Message        string     `json:"message,omitempty"`
		ExpiresAt      *time.Time `json:"expires_at,omitempty"`
		ExportURL      string     `json:"export_url,omitempty"`
		EmailSent      bool       `json:"email_sent"`
		CreatedAt      time.Time  `json:"created_at"`
	}

	ShareRecipeResponse struct {
		ShareID   string     `json:"share_id"`
		ShareLink string     `json:"share_link"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
		EmailSent bool       `json:"email_sent"`
		ExportURL string     `json:"export_url,omitempty"`
	}

	RecipeInteractionResponse struct {
		RecipeID     string    `json:"recipe_id"`
		IsFavorite   bool      `json:"is_favorite"`
		Rating       *int      `json:"rating"`
		Notes        string    `json:"notes"`
		Tags         []string  `json:"tags"`
		AccessCount  int       `json:"access_count"`
		LastAccessed time.Time `json:"last_accessed"`
	}

	RecipeHistoryResponse struct {
		Entries []RecipeHistoryEntry `json:"entries"`
		Total   int                  `json:"total"`
		HasMore bool                 `json:"has_more"`
	}

	UserStatsResponse struct {
		TotalRecipes        int      `json:"total_recipes"`
		FavoriteRecipes     int      `json:"favorite_recipes"`
		TotalRatings        int      `json:"total_ratings"`
		AverageRating       *float64 `json:"average_rating"`
		CollectionsCount    int      `json:"collections_count"`
		MostUsedIngredients []string `json:"most_used_ingredients"`
		FavoriteCuisines    []string `json:"favorite_cuisines"`
		CookingStreak       int      `json:"cooking_streak"`
	}
)
