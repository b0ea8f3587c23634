package interaction

import (
	"fmt"
	"recipe-ai-backend/domain"
	"strings"
)

// RenderExport formats a recipe as a printable plain-text document.
func RenderExport(r domain.Recipe) string {
	var b strings.Builder

	b.WriteString(r.Title + "\n")
	b.WriteString(strings.Repeat("=", len(r.Title)) + "\n\n")
	if r.Description != "" {
		b.WriteString(r.Description + "\n\n")
	}
	fmt.Fprintf(&b, "Cuisine: %s | Difficulty: %s | Servings: %d\n", r.Cuisine, r.Difficulty, r.Servings)
	fmt.Fprintf(&b, "Prep: %d min | Cook: %d min | Total: %d min\n\n", r.PrepTime, r.CookingTime, r.TotalTime)

	b.WriteString("Ingredients\n")
	for _, ing := range r.Ingredients {
		line := strings.TrimSpace(fmt.Sprintf("%s %s %s", ing.Amount, ing.Unit, ing.Name))
		if ing.Notes != "" {
			line += " (" + ing.Notes + ")"
		}
		b.WriteString("- " + line + "\n")
	}

	b.WriteString("\nInstructions\n")
	for _, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s", step.StepNumber, step.Instruction)
		if step.Duration != nil {
			fmt.Fprintf(&b, " [%d min]", *step.Duration)
		}
		if step.Temperature != nil {
			fmt.Fprintf(&b, " [%d°C]", *step.Temperature)
		}
		b.WriteString("\n")
	}

	if len(r.Tips) > 0 {
		b.WriteString("\nTips\n")
		for _, tip := range r.Tips {
			b.WriteString("- " + tip + "\n")
		}
	}

	if n := r.NutritionInfo; n != nil {
		fmt.Fprintf(&b, "\nNutrition per serving: %d kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
			n.Calories, n.Protein, n.Carbohydrates, n.Fat)
	}
	return b.String()
}
