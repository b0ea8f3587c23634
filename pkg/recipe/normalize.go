package recipe

import (
	"fmt"
	"recipe-ai-backend/domain"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultPrepTime    = 15
	defaultCookingTime = 30
	defaultServings    = 4
	defaultCuisine     = "international"
	defaultUnit        = "piece"
	defaultAmount      = "1"
	defaultSubstitute  = "substitute ingredient"
	defaultRatio       = "1:1"
)

// ValidationError lists the required fields a reply left out or empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "recipe is missing required fields: " + strings.Join(e.Missing, ", ")
}

// Normalize turns a loose model reply into a complete recipe. It has no side
// effects; now stamps the id and created_at.
func Normalize(l LooseRecipe, now time.Time) (domain.Recipe, error) {
	var missing []string
	if strings.TrimSpace(l.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(l.Description) == "" {
		missing = append(missing, "description")
	}
	if len(l.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(l.Instructions) == 0 {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return domain.Recipe{}, &ValidationError{Missing: missing}
	}

	prep := intOr(l.PrepTime, defaultPrepTime)
	cooking := intOr(l.CookingTime, defaultCookingTime)

	r := domain.Recipe{
		ID:            fmt.Sprintf("recipe_%d", now.Unix()),
		Title:         l.Title,
		Description:   l.Description,
		Ingredients:   normalizeIngredients(l.Ingredients),
		Instructions:  normalizeSteps(l.Instructions),
		PrepTime:      prep,
		CookingTime:   cooking,
		TotalTime:     intOr(l.TotalTime, prep+cooking),
		Servings:      intOr(l.Servings, defaultServings),
		Difficulty:    normalizeDifficulty(l.Difficulty),
		Cuisine:       l.Cuisine,
		Tags:          nonNil(l.Tags),
		Tips:          nonNil(l.Tips),
		Substitutions: normalizeSubstitutions(l.Substitutions),
		NutritionInfo: normalizeNutrition(l.Nutrition),
		Source:        domain.RecipeSourceAI,
		CreatedAt:     now.UTC(),
	}
	if r.Cuisine == "" {
		r.Cuisine = defaultCuisine
	}
	return r, nil
}

func intOr(n *FlexNumber, def int) int {
	if n == nil {
		return def
	}
	return n.Int()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func normalizeDifficulty(d string) string {
	switch v := strings.ToLower(strings.TrimSpace(d)); v {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		return v
	}
	return domain.DifficultyMedium
}

func normalizeIngredients(in []LooseIngredient) []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, 0, len(in))
	for _, ing := range in {
		item := domain.RecipeIngredient{
			Name:   ing.Name,
			Amount: defaultAmount,
			Unit:   defaultUnit,
		}
		if ing.Amount != nil {
			item.Amount = *ing.Amount
		}
		if ing.Unit != nil {
			item.Unit = *ing.Unit
		}
		if ing.Notes != nil {
			item.Notes = *ing.Notes
		}
		out = append(out, item)
	}
	return out
}

func normalizeSteps(in []LooseStep) []domain.RecipeStep {
	out := make([]domain.RecipeStep, 0, len(in))
	for i, st := range in {
		step := domain.RecipeStep{
			StepNumber:  i + 1,
			Instruction: st.Instruction,
			Temperature: ParseTemperature(st.Temperature),
		}
		if st.StepNumber != nil {
			step.StepNumber = st.StepNumber.Int()
		}
		if st.Duration != nil {
			d := st.Duration.Int()
			step.Duration = &d
		}
		out = append(out, step)
	}
	return out
}

// ParseTemperature maps the model's temperature hints to degrees.
func ParseTemperature(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		lower := strings.ToLower(s)
		switch {
		case lower == "":
			return nil
		case strings.Contains(lower, "low"):
			return intPtr(150)
		case strings.Contains(lower, "medium"):
			return intPtr(180)
		case strings.Contains(lower, "high"):
			return intPtr(220)
		case lower == "none" || lower == "no" || lower == "room":
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		return intPtr(int(f))
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f != 0 {
		return intPtr(int(f))
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

func normalizeSubstitutions(in []LooseSubstitution) []domain.IngredientSubstitution {
	out := make([]domain.IngredientSubstitution, 0, len(in))
	for _, sub := range in {
		item := domain.IngredientSubstitution{
			Original:   sub.Original,
			Substitute: defaultSubstitute,
			Ratio:      defaultRatio,
		}
		if sub.Notes != nil {
			item.Notes = *sub.Notes
		}
		if sub.Ratio != nil {
			item.Ratio = *sub.Ratio
		}

		switch {
		case sub.Substitute != nil:
			item.Substitute = *sub.Substitute
		case len(sub.Alternatives) > 0:
			item.Substitute = sub.Alternatives[0]
			if len(sub.Alternatives) > 1 {
				others := strings.Join(sub.Alternatives[1:], ", ")
				item.Notes = strings.Trim(item.Notes+". Other alternatives: "+others, ". ")
			}
		}
		out = append(out, item)
	}
	return out
}

func normalizeNutrition(n *LooseNutrition) *domain.NutritionInfo {
	if n == nil {
		return nil
	}
	info := &domain.NutritionInfo{
		Calories: intOr(n.Calories, 0),
		Protein:  floatOr(n.Protein),
		Fat:      floatOr(n.Fat),
		Fiber:    floatPtr(n.Fiber),
		Sugar:    floatPtr(n.Sugar),
		Sodium:   floatPtr(n.Sodium),
	}
	if n.Carbohydrates != nil {
		info.Carbohydrates = n.Carbohydrates.Value
	} else {
		info.Carbohydrates = floatOr(n.Carbs)
	}
	return info
}

func floatOr(n *FlexNumber) float64 {
	if n == nil {
		return 0
	}
	return n.Value
}

func floatPtr(n *FlexNumber) *float64 {
	if n == nil {
		return nil
	}
	v := n.Value
	return &v
}
