package ingredient

import (
	"context"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/pkg/docstore"
)

type (
	ShoppingListRepository interface {
		CreateShoppingList(ctx context.Context, list domain.ShoppingList) error
		GetUserShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingList, error)
	}

	shoppingListRepository struct {
		store docstore.Store
	}
)

func NewShoppingListRepository(store docstore.Store) ShoppingListRepository {
	return &shoppingListRepository{store: store}
}

func (r *shoppingListRepository) CreateShoppingList(ctx context.Context, list domain.ShoppingList) error {
	doc, err := docstore.Encode(list)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionShoppingLists, list.ID, doc)
}

// GetUserShoppingLists returns the user's lists, newest first.
func (r *shoppingListRepository) GetUserShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingList, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionShoppingLists, docstore.QueryOptions{
		Filters: []docstore.Filter{docstore.Where("user_id", docstore.OpEq, userID)},
		OrderBy: &docstore.OrderBy{Field: "created_at", Desc: true, As: docstore.KindTime},
	})
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[domain.ShoppingList](docs), nil
}
