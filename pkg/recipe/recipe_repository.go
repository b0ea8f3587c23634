package recipe

import (
	"context"
	"errors"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/pkg/docstore"
)

type (
	RecipeFilter struct {
		UserID         string
		Cuisine        string
		Difficulty     string
		Tag            string
		MaxCookingTime int
		PublicOnly     bool
		Limit          int
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe domain.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, id string, fields docstore.Document) error
		DeleteRecipe(ctx context.Context, id string) error
		FindRecipes(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error)
		AddRecipeHistory(ctx context.Context, entry domain.RecipeHistoryEntry) error
		GetRecipeHistory(ctx context.Context, userID, action string, limit, offset int) ([]domain.RecipeHistoryEntry, error)
	}

	recipeRepository struct {
		store docstore.Store
	}
)

func NewRecipeRepository(store docstore.Store) RecipeRepository {
	return &recipeRepository{store: store}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe domain.Recipe) error {
	doc, err := docstore.Encode(recipe)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionRecipes, recipe.ID, doc)
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (domain.Recipe, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionRecipes, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Recipe{}, domain.ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}

	var recipe domain.Recipe
	if err := docstore.Decode(doc, &recipe); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, id string, fields docstore.Document) error {
	if err := r.store.Update(ctx, docstore.CollectionRecipes, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionRecipes, id)
}

func (r *recipeRepository) FindRecipes(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error) {
	var filters []docstore.Filter
	if filter.UserID != "" {
		filters = append(filters, docstore.Where("user_id", docstore.OpEq, filter.UserID))
	}
	if filter.Cuisine != "" {
		filters = append(filters, docstore.Where("cuisine", docstore.OpEq, filter.Cuisine))
	}
	if filter.Difficulty != "" {
		filters = append(filters, docstore.Where("difficulty", docstore.OpEq, filter.Difficulty))
	}
	if filter.Tag != "" {
		filters = append(filters, docstore.Where("tags", docstore.OpArrayContains, filter.Tag))
	}
	if filter.MaxCookingTime > 0 {
		filters = append(filters, docstore.Where("cooking_time", docstore.OpLte, filter.MaxCookingTime))
	}
	if filter.PublicOnly {
		filters = append(filters, docstore.Where("is_public", docstore.OpEq, true))
	}

	docs, err := r.store.Query(ctx, docstore.CollectionRecipes, docstore.QueryOptions{
		Filters: filters,
		OrderBy: &docstore.OrderBy{Field: "created_at", Desc: true, As: docstore.KindTime},
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[domain.Recipe](docs), nil
}

func (r *recipeRepository) AddRecipeHistory(ctx context.Context, entry domain.RecipeHistoryEntry) error {
	doc, err := docstore.Encode(entry)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionRecipeHistory, entry.ID, doc)
}

func (r *recipeRepository) GetRecipeHistory(ctx context.Context, userID, action string, limit, offset int) ([]domain.RecipeHistoryEntry, error) {
	filters := []docstore.Filter{docstore.Where("user_id", docstore.OpEq, userID)}
	if action != "" {
		filters = append(filters, docstore.Where("action", docstore.OpEq, action))
	}

	docs, err := r.store.Query(ctx, docstore.CollectionRecipeHistory, docstore.QueryOptions{
		Filters: filters,
		OrderBy: &docstore.OrderBy{Field: "timestamp", Desc: true, As: docstore.KindTime},
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[domain.RecipeHistoryEntry](docs), nil
}
