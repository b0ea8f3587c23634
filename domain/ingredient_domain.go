package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSearchIngredients  = "success search ingredients"
	MessageSuccessGetCategories      = "success get ingredient categories"
	MessageSuccessCreateShoppingList = "shopping list created successfully"
	MessageSuccessGetPopular         = "success get popular ingredients"
	MessageSuccessGetPairings        = "success get ingredient pairings"
	MessageFailedSearchIngredients   = "failed to search ingredients"
	MessageFailedCreateShoppingList  = "failed to create shopping list"

	ErrEmptyShoppingList = errors.New("no ingredients found for the given recipes")
)

type (
	Ingredient struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		CommonUnits []string `json:"common_units"`
	}

	IngredientSearchResponse struct {
		Ingredients []Ingredient `json:"ingredients"`
		Total       int          `json:"total"`
		Query       string       `json:"query"`
	}

	PairingRequest struct {
		Ingredients []string `json:"ingredients" validate:"required,min=1,max=20,dive,required,max=100"`
		Limit       int      `json:"limit,omitempty" validate:"gte=0,lte=20"`
	}

	IngredientPairing struct {
		Name     string `json:"name"`
		Reason   string `json:"reason"`
		Category string `json:"category"`
	}

	CreateShoppingListRequest struct {
		Name      string   `json:"name" validate:"required,min=1,max=100"`
		RecipeIDs []string `json:"recipe_ids" validate:"required,min=1,max=50,dive,required"`
	}

	ShoppingListItem struct {
		Name      string   `json:"name"`
		Amount    string   `json:"amount"`
		Unit      string   `json:"unit"`
		RecipeIDs []string `json:"recipe_ids"`
		Checked   bool     `json:"checked"`
	}

	ShoppingList struct {
		ID        string             `json:"id"`
		UserID    string             `json:"user_id"`
		Name      string             `json:"name"`
		RecipeIDs []string           `json:"recipe_ids"`
		Items     []ShoppingListItem `json:"items"`
		CreatedAt time.Time          `json:"created_at"`
	}
)
