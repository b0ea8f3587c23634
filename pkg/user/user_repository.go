package user

import (
	"context"
	"errors"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/pkg/docstore"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user domain.User, profile domain.UserProfile) error
		GetUserByID(ctx context.Context, id string) (domain.User, error)
		GetUserByEmail(ctx context.Context, email string) (domain.User, error)
		CheckEmailExists(ctx context.Context, email string) (bool, error)
		UpdateUser(ctx context.Context, id string, fields docstore.Document) error
		DeleteUser(ctx context.Context, id string) error
		GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
		UpdateProfile(ctx context.Context, userID string, fields docstore.Document) error
	}

	userRepository struct {
		store docstore.Store
	}
)

func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

// RegisterUser writes the account and its default profile atomically.
func (r *userRepository) RegisterUser(ctx context.Context, user domain.User, profile domain.UserProfile) error {
	userDoc, err := docstore.Encode(user)
	if err != nil {
		return err
	}
	profileDoc, err := docstore.Encode(profile)
	if err != nil {
		return err
	}
	return r.store.BatchWrite(ctx, []docstore.BatchOp{
		{Type: docstore.BatchSet, Collection: docstore.CollectionUsers, DocumentID: user.ID, Data: userDoc},
		{Type: docstore.BatchSet, Collection: docstore.CollectionUserProfiles, DocumentID: user.ID, Data: profileDoc},
	})
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	var user domain.User
	if err := docstore.Decode(doc, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionUsers, docstore.QueryOptions{
		Filters: []docstore.Filter{docstore.Where("email", docstore.OpEq, email)},
		Limit:   1,
	})
	if err != nil {
		return domain.User{}, err
	}
	if len(docs) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	var user domain.User
	if err := docstore.Decode(docs[0], &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *userRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.store.Count(ctx, docstore.CollectionUsers, []docstore.Filter{
		docstore.Where("email", docstore.OpEq, email),
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id string, fields docstore.Document) error {
	if err := r.store.Update(ctx, docstore.CollectionUsers, id, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	return r.store.BatchWrite(ctx, []docstore.BatchOp{
		{Type: docstore.BatchDelete, Collection: docstore.CollectionUserProfiles, DocumentID: id},
		{Type: docstore.BatchDelete, Collection: docstore.CollectionUsers, DocumentID: id},
	})
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUserProfiles, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.UserProfile{}, domain.ErrProfileNotFound
		}
		return domain.UserProfile{}, err
	}

	var profile domain.UserProfile
	if err := docstore.Decode(doc, &profile); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, fields docstore.Document) error {
	if err := r.store.Update(ctx, docstore.CollectionUserProfiles, userID, fields); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrProfileNotFound
		}
		return err
	}
	return nil
}
