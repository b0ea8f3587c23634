package ingredient

import (
	"recipe-ai-backend/domain"
	"strconv"
	"strings"
)

// MergeIngredients combines the ingredients of recipes by lower-cased name.
// Amounts in the same unit are summed when both parse as numbers; otherwise
// the first amount stays.
func MergeIngredients(recipes []domain.Recipe) []domain.ShoppingListItem {
	index := map[string]int{}
	items := []domain.ShoppingListItem{}

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			name := strings.ToLower(strings.TrimSpace(ing.Name))
			if name == "" {
				continue
			}
			unit := ing.Unit
			if unit == "" {
				unit = "piece"
			}

			i, ok := index[name]
			if !ok {
				index[name] = len(items)
				items = append(items, domain.ShoppingListItem{
					Name:      name,
					Amount:    ing.Amount,
					Unit:      unit,
					RecipeIDs: []string{r.ID},
				})
				continue
			}

			item := &items[i]
			if !containsString(item.RecipeIDs, r.ID) {
				item.RecipeIDs = append(item.RecipeIDs, r.ID)
			}
			if !strings.EqualFold(item.Unit, unit) {
				continue
			}
			if sum, ok := addAmounts(item.Amount, ing.Amount); ok {
				item.Amount = sum
			}
		}
	}
	return items
}

func addAmounts(a, b string) (string, bool) {
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return "", false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(x+y, 'f', -1, 64), true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
