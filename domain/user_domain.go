package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister          = "register success"
	MessageSuccessLogin             = "login success"
	MessageSuccessGetDetail         = "success get detail"
	MessageSuccessGetProfile        = "success get user profile"
	MessageSuccessUpdateProfile     = "profile updated successfully"
	MessageSuccessUploadPhoto       = "profile photo uploaded successfully"
	MessageSuccessGetPreferences    = "success get user preferences"
	MessageSuccessUpdatePreferences = "preferences updated successfully"
	MessageSuccessDeleteAccount     = "account deleted successfully"

	MessageFailedRegister          = "failed to register"
	MessageFailedLogin             = "failed to login"
	MessageFailedGetDetail         = "failed to get detail"
	MessageFailedGetProfile        = "failed to get user profile"
	MessageFailedUpdateProfile     = "failed to update profile"
	MessageFailedUploadPhoto       = "failed to upload profile photo"
	MessageFailedGetPreferences    = "failed to get user preferences"
	MessageFailedUpdatePreferences = "failed to update preferences"
	MessageFailedDeleteAccount     = "failed to delete account"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrCredentialsNotMatch = errors.New("email or password does not match")
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrInvalidImage        = errors.New("file is not an allowed image type")
)

type (
	RegisterRequest struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,min=8,max=72"`
		DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SessionResponse struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		ExpiresIn   int          `json:"expires_in"`
		User        UserResponse `json:"user"`
	}

	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"password_hash"`
		DisplayName  string    `json:"display_name"`
		Bio          string    `json:"bio,omitempty"`
		PhotoURL     string    `json:"photo_url,omitempty"`
		IsActive     bool      `json:"is_active"`
		IsVerified   bool      `json:"is_verified"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	UserResponse struct {
		ID          string    `json:"id"`
		Email       string    `json:"email"`
		DisplayName string    `json:"display_name"`
		Bio         string    `json:"bio,omitempty"`
		PhotoURL    string    `json:"photo_url,omitempty"`
		IsActive    bool      `json:"is_active"`
		CreatedAt   time.Time `json:"created_at"`
	}

	UserPreferences struct {
		DietaryRestrictions []string       `json:"dietary_restrictions"`
		Allergies           []string       `json:"allergies"`
		PreferredCuisines   []string       `json:"preferred_cuisines"`
		CookingSkillLevel   string         `json:"cooking_skill_level"`
		AvailableEquipment  []string       `json:"available_equipment"`
		SpiceLevel          string         `json:"spice_level"`
		CuisinePreferences  map[string]int `json:"cuisine_preferences,omitempty"`
	}

	UserStats struct {
		RecipesGenerated int        `json:"recipes_generated"`
		FavoriteRecipes  int        `json:"favorite_recipes"`
		CookingStreak    int        `json:"cooking_streak"`
		LastActivity     *time.Time `json:"last_activity"`
	}

	UserProfile struct {
		UserID      string          `json:"user_id"`
		Preferences UserPreferences `json:"preferences"`
		Stats       UserStats       `json:"stats"`
		CreatedAt   time.Time       `json:"created_at"`
		UpdatedAt   time.Time       `json:"updated_at"`
	}

	UserProfileResponse struct {
		User        UserResponse    `json:"user"`
		Preferences UserPreferences `json:"preferences"`
		Stats       UserStats       `json:"stats"`
	}

	UpdateProfileRequest struct {
		DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
		Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
		PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	}

	UpdatePreferencesRequest struct {
		DietaryRestrictions []string `json:"dietary_restrictions,omitempty" validate:"omitempty,dive,oneof=vegetarian vegan gluten-free dairy-free keto paleo low-carb low-fat halal kosher"`
		Allergies           []string `json:"allergies,omitempty" validate:"omitempty,max=50,dive,max=100"`
		PreferredCuisines   []string `json:"preferred_cuisines,omitempty" validate:"omitempty,max=20,dive,max=50"`
		CookingSkillLevel   *string  `json:"cooking_skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
		AvailableEquipment  []string `json:"available_equipment,omitempty" validate:"omitempty,max=50,dive,max=100"`
		SpiceLevel          *string  `json:"spice_level,omitempty" validate:"omitempty,oneof=none mild medium hot extra-hot"`
	}
)

func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		PhotoURL:    u.PhotoURL,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		DietaryRestrictions: []string{},
		Allergies:           []string{},
		PreferredCuisines:   []string{},
		CookingSkillLevel:   "beginner",
		AvailableEquipment:  []string{},
		SpiceLevel:          "mild",
		CuisinePreferences:  map[string]int{},
	}
}
