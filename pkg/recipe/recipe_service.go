package recipe

import (
	"context"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultListLimit    = 20
	maxRecipeIngredient = 20
)

// BehaviorTracker records behavior events. Tracking is best-effort for
// callers in this package.
type BehaviorTracker interface {
	TrackBehavior(ctx context.Context, userID string, req domain.TrackBehaviorRequest) (domain.BehaviorEvent, error)
}

type (
	RecipeService interface {
		GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.GenerateRecipeResponse, error)
		GetRecipe(ctx context.Context, recipeID, userID string) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetUserRecipes(ctx context.Context, userID string, limit int) ([]domain.Recipe, error)
		SearchRecipes(ctx context.Context, req domain.SearchRecipeRequest) ([]domain.Recipe, error)
		GetPopularRecipes(ctx context.Context, limit int) ([]domain.Recipe, error)
		GetIngredientSuggestions(ctx context.Context, partial string) []string
	}

	recipeService struct {
		recipeRepository RecipeRepository
		generator        Generator
		cache            cache.Cache
		tracker          BehaviorTracker
		log              *logger.Logger
		now              func() time.Time
	}
)

func NewRecipeService(recipeRepository RecipeRepository, generator Generator, c cache.Cache, tracker BehaviorTracker, log *logger.Logger) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		generator:        generator,
		cache:            c,
		tracker:          tracker,
		log:              log.With("service", "RecipeService"),
		now:              time.Now,
	}
}

func recipeKey(id string) string {
	return cache.GenerateKey(cache.NamespaceRecipe, map[string]any{"recipe_id": id})
}

func (s *recipeService) GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.GenerateRecipeResponse, error) {
	if len(req.Ingredients) == 0 {
		return domain.GenerateRecipeResponse{}, domain.ErrNoIngredients
	}
	if len(req.Ingredients) > maxRecipeIngredient {
		return domain.GenerateRecipeResponse{}, domain.ErrTooManyIngredients
	}

	recipe, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.log.Error("recipe generation failed", "user_id", userID, "error", err)
		return domain.GenerateRecipeResponse{}, domain.ErrRecipeGenerationFailed
	}

	// recipe_<unix> alone collides when two recipes land in the same second.
	recipe.ID = recipe.ID + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if userID != "" {
		recipe.UserID = userID
		recipe.IsPublic = req.IsPublic
	} else {
		recipe.IsPublic = true
	}
	recipe.ImageURL = ImageFor(recipe.Title)
	recipe.UpdatedAt = recipe.CreatedAt

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.log.Error("failed to save generated recipe", "recipe_id", recipe.ID, "error", err)
		return domain.GenerateRecipeResponse{}, domain.ErrRecipeGenerationFailed
	}
	s.cache.Set(ctx, recipeKey(recipe.ID), recipe, cache.TTLRecipe)

	if userID != "" {
		s.recordGenerated(ctx, userID, recipe, req)
	}

	s.log.Info("recipe generated and saved", "recipe_id", recipe.ID, "user_id", userID)
	return domain.GenerateRecipeResponse{
		Recipe:        recipe,
		Suggestions:   s.generator.GenerateVariations(ctx, recipe),
		Substitutions: recipe.Substitutions,
	}, nil
}

func (s *recipeService) recordGenerated(ctx context.Context, userID string, recipe domain.Recipe, req domain.GenerateRecipeRequest) {
	entry := domain.RecipeHistoryEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		RecipeID:   recipe.ID,
		RecipeData: recipe,
		Action:     domain.ActionGenerated,
		Timestamp:  s.now().UTC(),
		Metadata:   map[string]any{"ingredients": req.Ingredients},
	}
	if err := s.recipeRepository.AddRecipeHistory(ctx, entry); err != nil {
		s.log.Warn("failed to record recipe history", "recipe_id", recipe.ID, "error", err)
	}

	if s.tracker == nil {
		return
	}
	ingredients := make([]any, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, strings.ToLower(ing.Name))
	}
	_, err := s.tracker.TrackBehavior(ctx, userID, domain.TrackBehaviorRequest{
		EventType: domain.EventGenerated,
		EventData: map[string]any{
			"recipe_id":   recipe.ID,
			"cuisine":     recipe.Cuisine,
			"difficulty":  recipe.Difficulty,
			"ingredients": ingredients,
		},
	})
	if err != nil {
		s.log.Warn("failed to track generated event", "recipe_id", recipe.ID, "error", err)
	}
}

// CanRead reports whether userID may see r. Anonymous callers pass "".
func CanRead(r domain.Recipe, userID string) bool {
	return r.IsPublic || (userID != "" && r.UserID == userID)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID, userID string) (domain.Recipe, error) {
	recipe, err := cache.GetOrLoad(ctx, s.cache, recipeKey(recipeID), cache.TTLRecipe, func(ctx context.Context) (domain.Recipe, error) {
		return s.recipeRepository.GetRecipeByID(ctx, recipeID)
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	if !CanRead(recipe, userID) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if recipe.UserID != userID {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	fields := docstore.Document{}
	if req.Title != nil {
		recipe.Title = *req.Title
		fields["title"] = recipe.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
		fields["description"] = recipe.Description
	}
	if req.Tags != nil {
		recipe.Tags = req.Tags
		fields["tags"] = recipe.Tags
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
		fields["is_public"] = recipe.IsPublic
	}
	if len(fields) == 0 {
		return recipe, nil
	}

	recipe.UpdatedAt = s.now().UTC()
	if err := s.recipeRepository.UpdateRecipe(ctx, recipeID, fields); err != nil {
		return domain.Recipe{}, err
	}
	s.cache.Delete(ctx, recipeKey(recipeID))

	s.log.Info("recipe updated", "recipe_id", recipeID)
	return recipe, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.cache.Delete(ctx, recipeKey(recipeID))

	s.log.Info("recipe deleted", "recipe_id", recipeID)
	return nil
}

func (s *recipeService) GetUserRecipes(ctx context.Context, userID string, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.recipeRepository.FindRecipes(ctx, RecipeFilter{UserID: userID, Limit: limit})
}

func (s *recipeService) SearchRecipes(ctx context.Context, req domain.SearchRecipeRequest) ([]domain.Recipe, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	candidates, err := s.recipeRepository.FindRecipes(ctx, RecipeFilter{
		Cuisine:        req.Cuisine,
		Difficulty:     req.Difficulty,
		MaxCookingTime: req.MaxCookingTime,
		PublicOnly:     true,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	out := make([]domain.Recipe, 0, len(candidates))
	for _, r := range candidates {
		if len(req.Tags) > 0 && !sharesTag(r.Tags, req.Tags) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Title), query) &&
			!strings.Contains(strings.ToLower(r.Description), query) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func sharesTag(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[t] = struct{}{}
	}
	for _, t := range want {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func (s *recipeService) GetPopularRecipes(ctx context.Context, limit int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	key := cache.GenerateKey(cache.NamespacePopularRecipes, map[string]any{"limit": limit})

	return cache.GetOrLoad(ctx, s.cache, key, cache.TTLPopularRecipes, func(ctx context.Context) ([]domain.Recipe, error) {
		recipes, err := s.recipeRepository.FindRecipes(ctx, RecipeFilter{PublicOnly: true, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			s.cache.Set(ctx, recipeKey(r.ID), r, cache.TTLRecipe)
		}
		return recipes, nil
	})
}

func (s *recipeService) GetIngredientSuggestions(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if len(partial) < 2 {
		return []string{}
	}
	return s.generator.SuggestIngredients(ctx, partial)
}
