package ingredient

import "recipe-ai-backend/domain"

var catalogue = []domain.Ingredient{
	{ID: "1", Name: "chicken", Category: "protein", CommonUnits: []string{"lb", "kg", "piece"}},
	{ID: "2", Name: "rice", Category: "grain", CommonUnits: []string{"cup", "kg", "lb"}},
	{ID: "3", Name: "tomato", Category: "vegetable", CommonUnits: []string{"piece", "cup", "kg"}},
	{ID: "4", Name: "onion", Category: "vegetable", CommonUnits: []string{"piece", "cup", "kg"}},
	{ID: "5", Name: "garlic", Category: "vegetable", CommonUnits: []string{"clove", "head", "tsp"}},
	{ID: "6", Name: "olive oil", Category: "oil", CommonUnits: []string{"tbsp", "cup", "ml"}},
	{ID: "7", Name: "salt", Category: "spice", CommonUnits: []string{"tsp", "tbsp", "pinch"}},
	{ID: "8", Name: "pepper", Category: "spice", CommonUnits: []string{"tsp", "tbsp", "pinch"}},
}

var categories = []string{
	"protein", "vegetable", "fruit", "grain", "dairy",
	"spice", "herb", "oil", "condiment", "other",
}

var popular = []domain.Ingredient{
	{Name: "chicken", Category: "protein"},
	{Name: "rice", Category: "grain"},
	{Name: "tomato", Category: "vegetable"},
	{Name: "onion", Category: "vegetable"},
	{Name: "garlic", Category: "vegetable"},
	{Name: "olive oil", Category: "oil"},
	{Name: "salt", Category: "spice"},
	{Name: "pepper", Category: "spice"},
	{Name: "cheese", Category: "dairy"},
	{Name: "pasta", Category: "grain"},
}

// pairings lists ingredients that go well with a base ingredient.
var pairings = map[string][]string{
	"chicken": {"garlic", "onion", "herbs", "lemon"},
	"tomato":  {"basil", "garlic", "onion", "olive oil"},
	"pasta":   {"garlic", "olive oil", "parmesan", "herbs"},
	"rice":    {"soy sauce", "ginger", "garlic", "vegetables"},
	"beef":    {"onion", "garlic", "herbs", "wine"},
	"fish":    {"lemon", "herbs", "garlic", "butter"},
}
