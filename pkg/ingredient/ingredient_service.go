package ingredient

import (
	"context"
	"fmt"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/recipe"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSearchLimit  = 20
	defaultPairingLimit = 5
)

type (
	IngredientService interface {
		Search(ctx context.Context, query string, limit int) ([]domain.Ingredient, error)
		Categories() []string
		Popular(limit int) []domain.Ingredient
		Suggestions(ctx context.Context, partial string) []string
		Pairings(existing []string, limit int) []domain.IngredientPairing
		CreateShoppingList(ctx context.Context, userID string, req domain.CreateShoppingListRequest) (domain.ShoppingList, error)
	}

	ingredientService struct {
		recipeRepository       recipe.RecipeRepository
		generator              recipe.Generator
		shoppingListRepository ShoppingListRepository
		cache                  cache.Cache
		log                    *logger.Logger
		now                    func() time.Time
	}
)

func NewIngredientService(recipeRepository recipe.RecipeRepository, shoppingListRepository ShoppingListRepository, generator recipe.Generator, c cache.Cache, log *logger.Logger) IngredientService {
	return &ingredientService{
		recipeRepository:       recipeRepository,
		generator:              generator,
		shoppingListRepository: shoppingListRepository,
		cache:                  c,
		log:                    log.With("service", "IngredientService"),
		now:                    time.Now,
	}
}

func (s *ingredientService) Search(ctx context.Context, query string, limit int) ([]domain.Ingredient, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))
	key := cache.GenerateKey(cache.NamespaceIngredient, map[string]any{"q": query, "limit": limit})

	return cache.GetOrLoad(ctx, s.cache, key, cache.TTLIngredient, func(context.Context) ([]domain.Ingredient, error) {
		out := make([]domain.Ingredient, 0, limit)
		for _, ing := range catalogue {
			if len(out) == limit {
				break
			}
			if strings.Contains(strings.ToLower(ing.Name), query) {
				out = append(out, ing)
			}
		}
		return out, nil
	})
}

func (s *ingredientService) Categories() []string {
	return append([]string(nil), categories...)
}

func (s *ingredientService) Popular(limit int) []domain.Ingredient {
	if limit <= 0 || limit > len(popular) {
		limit = len(popular)
	}
	return append([]domain.Ingredient(nil), popular[:limit]...)
}

func (s *ingredientService) Suggestions(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if len(partial) < 2 {
		return []string{}
	}
	return s.generator.SuggestIngredients(ctx, partial)
}

// Pairings suggests complementary ingredients that are not already present.
func (s *ingredientService) Pairings(existing []string, limit int) []domain.IngredientPairing {
	if limit <= 0 {
		limit = defaultPairingLimit
	}
	have := make(map[string]struct{}, len(existing))
	for _, ing := range existing {
		have[strings.ToLower(strings.TrimSpace(ing))] = struct{}{}
	}

	out := []domain.IngredientPairing{}
	seen := map[string]struct{}{}
	for _, ing := range existing {
		for _, p := range pairings[strings.ToLower(strings.TrimSpace(ing))] {
			if _, ok := have[p]; ok {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, domain.IngredientPairing{
				Name:     p,
				Reason:   fmt.Sprintf("Pairs well with %s", ing),
				Category: "complementary",
			})
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

func (s *ingredientService) CreateShoppingList(ctx context.Context, userID string, req domain.CreateShoppingListRequest) (domain.ShoppingList, error) {
	var recipes []domain.Recipe
	for _, id := range req.RecipeIDs {
		r, err := s.recipeRepository.GetRecipeByID(ctx, id)
		if err != nil {
			s.log.Warn("skipping recipe for shopping list", "recipe_id", id, "error", err)
			continue
		}
		if !recipe.CanRead(r, userID) {
			s.log.Warn("skipping unreadable recipe for shopping list", "recipe_id", id, "user_id", userID)
			continue
		}
		recipes = append(recipes, r)
	}

	items := MergeIngredients(recipes)
	if len(items) == 0 {
		return domain.ShoppingList{}, domain.ErrEmptyShoppingList
	}

	list := domain.ShoppingList{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		RecipeIDs: req.RecipeIDs,
		Items:     items,
		CreatedAt: s.now().UTC(),
	}
	if err := s.shoppingListRepository.CreateShoppingList(ctx, list); err != nil {
		return domain.ShoppingList{}, fmt.Errorf("create shopping list: %w", err)
	}

	s.log.Info("shopping list created", "user_id", userID, "list_id", list.ID, "recipe_count", len(recipes))
	return list, nil
}
