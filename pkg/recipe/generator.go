package recipe

import (
	"context"
	"fmt"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/llm"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const systemPrompt = "You are a professional chef and cookbook writer. Generate detailed, practical recipes in JSON format. " +
	"Always provide exact measurements, clear instructions, and helpful cooking tips. Respond with valid JSON only."

const recipeSchema = `{
  "title": "Recipe Name",
  "description": "Brief description of the dish",
  "cuisine": "cuisine type",
  "difficulty": "easy|medium|hard",
  "prep_time": 15,
  "cooking_time": 30,
  "total_time": 45,
  "servings": 4,
  "ingredients": [
    {"name": "ingredient name", "amount": 2, "unit": "cups", "notes": "optional preparation notes"}
  ],
  "instructions": [
    {"step_number": 1, "instruction": "Detailed step-by-step instruction", "duration": 5, "temperature": 180}
  ],
  "nutrition": {"calories": 350, "protein": 25, "carbs": 30, "fat": 12, "fiber": 8},
  "tags": ["quick", "healthy", "one-pot"],
  "tips": ["Helpful cooking tip or variation"],
  "substitutions": [
    {"original": "ingredient name", "substitute": "substitute ingredient", "ratio": "1:1", "notes": "substitution notes"}
  ]
}`

const (
	maxIngredientSuggestions = 10
	maxVariations            = 3
)

type (
	Generator interface {
		Generate(ctx context.Context, req domain.GenerateRecipeRequest) (domain.Recipe, error)
		SuggestIngredients(ctx context.Context, partial string) []string
		GenerateVariations(ctx context.Context, recipe domain.Recipe) []domain.RecipeSuggestion
	}

	generator struct {
		llm llm.Client
		log *logger.Logger
		now func() time.Time
	}
)

func NewGenerator(client llm.Client, log *logger.Logger) Generator {
	return &generator{
		llm: client,
		log: log.With("service", "RecipeGenerator"),
		now: time.Now,
	}
}

func (g *generator) Generate(ctx context.Context, req domain.GenerateRecipeRequest) (domain.Recipe, error) {
	reply, err := g.llm.ChatJSON(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildRecipePrompt(req)},
		},
	})
	if err != nil {
		g.log.Error("recipe generation call failed", "error", err)
		return domain.Recipe{}, err
	}

	loose, err := ParseLoose(reply)
	if err != nil {
		g.log.Error("failed to parse recipe reply", "error", err)
		return domain.Recipe{}, err
	}
	recipe, err := Normalize(loose, g.now())
	if err != nil {
		g.log.Error("recipe reply rejected", "error", err)
		return domain.Recipe{}, err
	}

	g.log.Info("recipe generated", "title", recipe.Title)
	return recipe, nil
}

func buildRecipePrompt(req domain.GenerateRecipeRequest) string {
	servings := req.Servings
	if servings <= 0 {
		servings = 4
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed recipe using these ingredients: %s\n\n", strings.Join(req.Ingredients, ", "))
	b.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Servings: %d\n", servings)
	b.WriteString("- Format: Valid JSON object with the exact structure below")

	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "\n- Dietary restrictions: %s", strings.Join(req.DietaryRestrictions, ", "))
	}
	if req.PreferredCuisine != "" {
		fmt.Fprintf(&b, "\n- Cuisine style: %s", req.PreferredCuisine)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "\n- Difficulty level: %s", req.Difficulty)
	}
	if req.MaxCookingTime > 0 {
		fmt.Fprintf(&b, "\n- Maximum cooking time: %d minutes", req.MaxCookingTime)
	}
	if req.AdditionalNotes != "" {
		fmt.Fprintf(&b, "\n- Additional notes: %s", req.AdditionalNotes)
	}

	b.WriteString("\n\nJSON STRUCTURE (respond with this exact format):\n")
	b.WriteString(recipeSchema)
	b.WriteString("\n\nGenerate a creative, practical recipe that uses the provided ingredients effectively.")
	return b.String()
}

func (g *generator) SuggestIngredients(ctx context.Context, partial string) []string {
	prompt := fmt.Sprintf(`Suggest %d common cooking ingredients that start with or contain "%s".
Respond with a JSON object of the form {"suggestions": ["ingredient1", "ingredient2"]}, no explanations.`, maxIngredientSuggestions, partial)

	reply, err := g.llm.ChatJSON(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		g.log.Warn("ingredient suggestions failed", "error", err)
		return []string{}
	}

	out, err := parseSuggestions(reply)
	if err != nil {
		g.log.Warn("ingredient suggestions unreadable", "error", err)
		return []string{}
	}
	if len(out) > maxIngredientSuggestions {
		out = out[:maxIngredientSuggestions]
	}
	return out
}

// parseSuggestions accepts a bare array or an object with a suggestions key.
func parseSuggestions(reply string) ([]string, error) {
	reply = strings.TrimSpace(reply)
	var list []string
	if err := json.Unmarshal([]byte(reply), &list); err == nil {
		return list, nil
	}
	body, err := extractObject(reply)
	if err != nil {
		return nil, err
	}
	var obj struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, err
	}
	if obj.Suggestions == nil {
		return []string{}, nil
	}
	return obj.Suggestions, nil
}

func (g *generator) GenerateVariations(ctx context.Context, recipe domain.Recipe) []domain.RecipeSuggestion {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, ing.Name)
	}
	title := recipe.Title
	if title == "" {
		title = "Unknown"
	}

	prompt := fmt.Sprintf(`Based on this recipe: %s, create %d variations with different cooking methods, ingredients, or flavors.

Original ingredients: %s

Return a JSON object with a "suggestions" array. Each suggestion has:
- title: variation name
- description: brief description of the variation
- key_changes: what makes this variation different`, title, maxVariations, strings.Join(names, ", "))

	reply, err := g.llm.ChatJSON(ctx, llm.ChatRequest{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:   800,
		Temperature: 0.8,
	})
	if err != nil {
		g.log.Warn("recipe variations failed", "error", err)
		return []domain.RecipeSuggestion{}
	}

	body, err := extractObject(reply)
	if err != nil {
		g.log.Warn("recipe variations unreadable", "error", err)
		return []domain.RecipeSuggestion{}
	}
	var parsed struct {
		Suggestions []domain.RecipeSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		g.log.Warn("recipe variations unreadable", "error", err)
		return []domain.RecipeSuggestion{}
	}
	if len(parsed.Suggestions) > maxVariations {
		parsed.Suggestions = parsed.Suggestions[:maxVariations]
	}
	if parsed.Suggestions == nil {
		return []domain.RecipeSuggestion{}
	}
	return parsed.Suggestions
}
