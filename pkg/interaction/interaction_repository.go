package interaction

import (
	"context"
	"errors"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/pkg/docstore"
)

type (
	InteractionRepository interface {
		GetInteraction(ctx context.Context, userID, recipeID string) (domain.UserRecipeInteraction, error)
		SaveInteraction(ctx context.Context, interaction domain.UserRecipeInteraction) error
		GetUserInteractions(ctx context.Context, userID string, favoritesOnly bool, limit int) ([]domain.UserRecipeInteraction, error)
		CreateShare(ctx context.Context, share domain.RecipeShare) error
		CreateCollection(ctx context.Context, collection domain.RecipeCollection) error
		CountCollections(ctx context.Context, userID string) (int64, error)
	}

	interactionRepository struct {
		store docstore.Store
	}
)

func NewInteractionRepository(store docstore.Store) InteractionRepository {
	return &interactionRepository{store: store}
}

func InteractionID(userID, recipeID string) string {
	return userID + "_" + recipeID
}

func (r *interactionRepository) GetInteraction(ctx context.Context, userID, recipeID string) (domain.UserRecipeInteraction, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUserRecipeInteraction, InteractionID(userID, recipeID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.UserRecipeInteraction{}, domain.ErrInteractionNotFound
		}
		return domain.UserRecipeInteraction{}, err
	}

	var interaction domain.UserRecipeInteraction
	if err := docstore.Decode(doc, &interaction); err != nil {
		return domain.UserRecipeInteraction{}, err
	}
	return interaction, nil
}

func (r *interactionRepository) SaveInteraction(ctx context.Context, interaction domain.UserRecipeInteraction) error {
	interaction.ID = InteractionID(interaction.UserID, interaction.RecipeID)
	doc, err := docstore.Encode(interaction)
	if err != nil {
		return err
	}

	// Update keeps the stored created_at; Create only runs for a new pair.
	delete(doc, "created_at")
	err = r.store.Update(ctx, docstore.CollectionUserRecipeInteraction, interaction.ID, doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return r.store.Create(ctx, docstore.CollectionUserRecipeInteraction, interaction.ID, doc)
	}
	return err
}

func (r *interactionRepository) GetUserInteractions(ctx context.Context, userID string, favoritesOnly bool, limit int) ([]domain.UserRecipeInteraction, error) {
	filters := []docstore.Filter{docstore.Where("user_id", docstore.OpEq, userID)}
	if favoritesOnly {
		filters = append(filters, docstore.Where("is_favorite", docstore.OpEq, true))
	}

	docs, err := r.store.Query(ctx, docstore.CollectionUserRecipeInteraction, docstore.QueryOptions{
		Filters: filters,
		OrderBy: &docstore.OrderBy{Field: "updated_at", Desc: true, As: docstore.KindTime},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[domain.UserRecipeInteraction](docs), nil
}

func (r *interactionRepository) CreateShare(ctx context.Context, share domain.RecipeShare) error {
	doc, err := docstore.Encode(share)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionRecipeShares, share.ID, doc)
}

func (r *interactionRepository) CreateCollection(ctx context.Context, collection domain.RecipeCollection) error {
	doc, err := docstore.Encode(collection)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionRecipeCollections, collection.ID, doc)
}

func (r *interactionRepository) CountCollections(ctx context.Context, userID string) (int64, error) {
	return r.store.Count(ctx, docstore.CollectionRecipeCollections, []docstore.Filter{
		docstore.Where("user_id", docstore.OpEq, userID),
	})
}
