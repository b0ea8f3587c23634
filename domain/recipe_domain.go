package domain

import (
	"errors"
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	RecipeSourceAI = "ai_generated"
)

var (
	MessageSuccessGenerateRecipe   = "recipe generated successfully"
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessUpdateRecipe     = "recipe updated successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessGetSuggestions   = "success get ingredient suggestions"
	MessageSuccessSearchRecipes    = "success search recipes"
	MessageSuccessGetPopularRecipe = "success get popular recipes"

	MessageFailedGenerateRecipe  = "failed to generate recipe"
	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedGetSuggestions  = "failed to get ingredient suggestions"
	MessageFailedSearchRecipes   = "failed to search recipes"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrRecipeGenerationFailed   = errors.New("failed to generate recipe, please try again")
	ErrNoIngredients            = errors.New("no ingredients provided for recipe generation")
	ErrTooManyIngredients       = errors.New("too many ingredients provided")
)

type (
	GenerateRecipeRequest struct {
		Ingredients         []string `json:"ingredients" validate:"required,min=1,max=20,dive,required,max=200"`
		AdditionalNotes     string   `json:"additional_notes,omitempty" validate:"max=500"`
		PreferredCuisine    string   `json:"preferred_cuisine,omitempty" validate:"max=50"`
		MaxCookingTime      int      `json:"max_cooking_time,omitempty" validate:"gte=0,lte=1440"`
		Servings            int      `json:"servings,omitempty" validate:"gte=0,lte=50"`
		Difficulty          string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
		DietaryRestrictions []string `json:"dietary_restrictions,omitempty" validate:"dive,oneof=vegetarian vegan gluten-free dairy-free keto paleo low-carb low-fat halal kosher"`
		IsPublic            bool     `json:"is_public"`
	}

	UpdateRecipeRequest struct {
		Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
		Description *string  `json:"description,omitempty" validate:"omitempty,min=10,max=1000"`
		Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
		IsPublic    *bool    `json:"is_public,omitempty"`
	}

	SearchRecipeRequest struct {
		Query          string   `query:"q" validate:"max=100"`
		Cuisine        string   `query:"cuisine" validate:"max=50"`
		Difficulty     string   `query:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		MaxCookingTime int      `query:"max_cooking_time" validate:"gte=0"`
		Tags           []string `query:"tags"`
		Limit          int      `query:"limit" validate:"gte=0,lte=100"`
	}

	RecipeIngredient struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
		Unit   string `json:"unit"`
		Notes  string `json:"notes"`
	}

	RecipeStep struct {
		StepNumber  int    `json:"step_number"`
		Instruction string `json:"instruction"`
		Duration    *int   `json:"duration"`
		Temperature *int   `json:"temperature"`
	}

	IngredientSubstitution struct {
		Original   string `json:"original"`
		Substitute string `json:"substitute"`
		Ratio      string `json:"ratio"`
		Notes      string `json:"notes"`
	}

	RecipeSuggestion struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		KeyChanges  string `json:"key_changes"`
	}

	// Recipe is the canonical stored recipe. Ingredients and Instructions are never empty.
	Recipe struct {
		ID            string                   `json:"id"`
		Title         string                   `json:"title"`
		Description   string                   `json:"description"`
		Ingredients   []RecipeIngredient       `json:"ingredients"`
		Instructions  []RecipeStep             `json:"instructions"`
		CookingTime   int                      `json:"cooking_time"`
		PrepTime      int                      `json:"prep_time"`
		TotalTime     int                      `json:"total_time"`
		Servings      int                      `json:"servings"`
		Difficulty    string                   `json:"difficulty"`
		Cuisine       string                   `json:"cuisine"`
		Tags          []string                 `json:"tags"`
		Tips          []string                 `json:"tips"`
		Substitutions []IngredientSubstitution `json:"substitutions"`
		NutritionInfo *NutritionInfo           `json:"nutrition_info,omitempty"`
		ImageURL      string                   `json:"image_url,omitempty"`
		UserID        string                   `json:"user_id,omitempty"`
		IsPublic      bool                     `json:"is_public"`
		Source        string                   `json:"source,omitempty"`
		CreatedAt     time.Time                `json:"created_at"`
		UpdatedAt     time.Time                `json:"updated_at,omitempty"`
	}

	GenerateRecipeResponse struct {
		Recipe        Recipe                   `json:"recipe"`
		Suggestions   []RecipeSuggestion       `json:"suggestions"`
		Substitutions []IngredientSubstitution `json:"substitutions"`
	}

	RecipeListResponse struct {
		Recipes []Recipe `json:"recipes"`
		Total   int      `json:"total"`
	}

	IngredientSuggestionResponse struct {
		Query       string   `json:"query"`
		Suggestions []string `json:"suggestions"`
	}
)
