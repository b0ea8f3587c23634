package personalization

import (
	"context"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/pkg/docstore"
	"time"
)

type (
	BehaviorRepository interface {
		AddEvent(ctx context.Context, event domain.BehaviorEvent) error
		GetUserEvents(ctx context.Context, userID string, since time.Time) ([]domain.BehaviorEvent, error)
		GetEventsByType(ctx context.Context, eventTypes []string, since time.Time) ([]domain.BehaviorEvent, error)
	}

	behaviorRepository struct {
		store docstore.Store
	}
)

func NewBehaviorRepository(store docstore.Store) BehaviorRepository {
	return &behaviorRepository{store: store}
}

func (r *behaviorRepository) AddEvent(ctx context.Context, event domain.BehaviorEvent) error {
	doc, err := docstore.Encode(event)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, docstore.CollectionUserBehavior, event.ID, doc)
}

func (r *behaviorRepository) GetUserEvents(ctx context.Context, userID string, since time.Time) ([]domain.BehaviorEvent, error) {
	return r.query(ctx, []docstore.Filter{
		docstore.Where("user_id", docstore.OpEq, userID),
		docstore.Where("timestamp", docstore.OpGte, since),
	})
}

// GetEventsByType returns events of any user, newest first.
func (r *behaviorRepository) GetEventsByType(ctx context.Context, eventTypes []string, since time.Time) ([]domain.BehaviorEvent, error) {
	return r.query(ctx, []docstore.Filter{
		docstore.Where("event_type", docstore.OpIn, eventTypes),
		docstore.Where("timestamp", docstore.OpGte, since),
	})
}

func (r *behaviorRepository) query(ctx context.Context, filters []docstore.Filter) ([]domain.BehaviorEvent, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionUserBehavior, docstore.QueryOptions{
		Filters: filters,
		OrderBy: &docstore.OrderBy{Field: "timestamp", Desc: true, As: docstore.KindTime},
	})
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[domain.BehaviorEvent](docs), nil
}
