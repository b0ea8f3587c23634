package interaction

import (
	"context"
	"errors"
	"fmt"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/mailing"
	"recipe-ai-backend/internal/utils/storage"
	"recipe-ai-backend/pkg/recipe"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultFavoritesLimit = 20
	defaultHistoryLimit   = 50
	statsHistoryLimit     = 100
	maxCookingStreak      = 30
)

type (
	InteractionService interface {
		SaveRecipe(ctx context.Context, userID string, req domain.SaveRecipeRequest) (domain.RecipeInteractionResponse, error)
		ToggleFavorite(ctx context.Context, userID string, req domain.FavoriteRecipeRequest) (domain.RecipeInteractionResponse, error)
		RateRecipe(ctx context.Context, userID string, req domain.RateRecipeRequest) (domain.RecipeInteractionResponse, error)
		ShareRecipe(ctx context.Context, userID string, req domain.ShareRecipeRequest) (domain.ShareRecipeResponse, error)
		GetFavorites(ctx context.Context, userID string, limit int) ([]domain.RecipeInteractionResponse, error)
		GetRecipeHistory(ctx context.Context, userID string, limit, offset int) (domain.RecipeHistoryResponse, error)
		GetUserStats(ctx context.Context, userID string) (domain.UserStatsResponse, error)
		CreateCollection(ctx context.Context, userID string, req domain.CreateCollectionRequest) (domain.RecipeCollection, error)
		TrackRecipeView(ctx context.Context, userID string, req domain.TrackViewRequest) (domain.RecipeInteractionResponse, error)
	}

	interactionService struct {
		interactionRepository InteractionRepository
		recipeRepository      recipe.RecipeRepository
		tracker               recipe.BehaviorTracker
		mailer                mailing.Mailer
		storage               storage.AwsS3
		appURL                string
		log                   *logger.Logger
		now                   func() time.Time
	}
)

func NewInteractionService(
	interactionRepository InteractionRepository,
	recipeRepository recipe.RecipeRepository,
	tracker recipe.BehaviorTracker,
	mailer mailing.Mailer,
	objectStorage storage.AwsS3,
	appURL string,
	log *logger.Logger,
) InteractionService {
	return &interactionService{
		interactionRepository: interactionRepository,
		recipeRepository:      recipeRepository,
		tracker:               tracker,
		mailer:                mailer,
		storage:               objectStorage,
		appURL:                strings.TrimSuffix(appURL, "/"),
		log:                   log.With("service", "InteractionService"),
		now:                   time.Now,
	}
}

func toResponse(i domain.UserRecipeInteraction) domain.RecipeInteractionResponse {
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.RecipeInteractionResponse{
		RecipeID:     i.RecipeID,
		IsFavorite:   i.IsFavorite,
		Rating:       i.Rating,
		Notes:        i.Notes,
		Tags:         tags,
		AccessCount:  i.AccessCount,
		LastAccessed: i.LastAccessed,
	}
}

// getOrNew loads the interaction for the pair, or starts a fresh one.
func (s *interactionService) getOrNew(ctx context.Context, userID, recipeID string) (domain.UserRecipeInteraction, error) {
	i, err := s.interactionRepository.GetInteraction(ctx, userID, recipeID)
	if err == nil {
		return i, nil
	}
	if !errors.Is(err, domain.ErrInteractionNotFound) {
		return domain.UserRecipeInteraction{}, err
	}
	now := s.now().UTC()
	return domain.UserRecipeInteraction{
		ID:           InteractionID(userID, recipeID),
		UserID:       userID,
		RecipeID:     recipeID,
		Tags:         []string{},
		LastAccessed: now,
		CreatedAt:    now,
	}, nil
}

func (s *interactionService) save(ctx context.Context, i *domain.UserRecipeInteraction) error {
	i.UpdatedAt = s.now().UTC()
	if err := s.interactionRepository.SaveInteraction(ctx, *i); err != nil {
		return fmt.Errorf("save interaction %s: %w", InteractionID(i.UserID, i.RecipeID), err)
	}
	return nil
}

func (s *interactionService) addHistory(ctx context.Context, userID string, r domain.Recipe, action string, metadata map[string]any) {
	entry := domain.RecipeHistoryEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		RecipeID:   r.ID,
		RecipeData: r,
		Action:     action,
		Timestamp:  s.now().UTC(),
		Metadata:   metadata,
	}
	if err := s.recipeRepository.AddRecipeHistory(ctx, entry); err != nil {
		s.log.Warn("failed to add history entry", "user_id", userID, "recipe_id", r.ID, "action", action, "error", err)
	}
}

func (s *interactionService) track(ctx context.Context, userID, eventType string, data map[string]any) {
	if s.tracker == nil {
		return
	}
	if _, err := s.tracker.TrackBehavior(ctx, userID, domain.TrackBehaviorRequest{EventType: eventType, EventData: data}); err != nil {
		s.log.Warn("failed to track behavior", "user_id", userID, "event_type", eventType, "error", err)
	}
}

// readableRecipe loads a recipe the user is allowed to act on.
func (s *interactionService) readableRecipe(ctx context.Context, userID, recipeID string) (domain.Recipe, error) {
	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !recipe.CanRead(r, userID) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}
	return r, nil
}

func (s *interactionService) SaveRecipe(ctx context.Context, userID string, req domain.SaveRecipeRequest) (domain.RecipeInteractionResponse, error) {
	r, err := s.readableRecipe(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	i, err := s.getOrNew(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}

	i.Notes = req.Notes
	if req.Tags != nil {
		i.Tags = req.Tags
	}
	if err := s.save(ctx, &i); err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	s.addHistory(ctx, userID, r, domain.ActionSaved, map[string]any{"notes": req.Notes, "tags": i.Tags})

	s.log.Info("recipe saved", "user_id", userID, "recipe_id", req.RecipeID)
	return toResponse(i), nil
}

func (s *interactionService) ToggleFavorite(ctx context.Context, userID string, req domain.FavoriteRecipeRequest) (domain.RecipeInteractionResponse, error) {
	r, err := s.readableRecipe(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	i, err := s.getOrNew(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}

	i.IsFavorite = !i.IsFavorite
	if err := s.save(ctx, &i); err != nil {
		return domain.RecipeInteractionResponse{}, err
	}

	action := domain.ActionViewed
	if i.IsFavorite {
		action = domain.ActionFavorited
	}
	s.addHistory(ctx, userID, r, action, map[string]any{"is_favorite": i.IsFavorite})
	if i.IsFavorite {
		s.track(ctx, userID, domain.EventFavorited, map[string]any{
			"recipe_id":  r.ID,
			"cuisine":    r.Cuisine,
			"difficulty": r.Difficulty,
		})
	}

	s.log.Info("recipe favorite toggled", "user_id", userID, "recipe_id", req.RecipeID, "is_favorite", i.IsFavorite)
	return toResponse(i), nil
}

func (s *interactionService) RateRecipe(ctx context.Context, userID string, req domain.RateRecipeRequest) (domain.RecipeInteractionResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return domain.RecipeInteractionResponse{}, domain.ErrInvalidRating
	}
	r, err := s.readableRecipe(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	i, err := s.getOrNew(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}

	rating := req.Rating
	i.Rating = &rating
	if req.Notes != "" {
		i.Notes = req.Notes
	}
	if err := s.save(ctx, &i); err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	s.addHistory(ctx, userID, r, domain.ActionRated, map[string]any{"rating": rating, "notes": req.Notes})
	s.track(ctx, userID, domain.EventRated, map[string]any{"recipe_id": r.ID, "rating": rating})

	s.log.Info("recipe rated", "user_id", userID, "recipe_id", req.RecipeID, "rating", rating)
	return toResponse(i), nil
}

func (s *interactionService) ShareRecipe(ctx context.Context, userID string, req domain.ShareRecipeRequest) (domain.ShareRecipeResponse, error) {
	switch req.ShareMethod {
	case domain.ShareLink, domain.ShareSocial, domain.SharePrint, domain.ShareExportPDF:
	case domain.ShareEmail:
		if req.RecipientEmail == "" {
			return domain.ShareRecipeResponse{}, domain.ErrRecipientRequired
		}
	default:
		return domain.ShareRecipeResponse{}, domain.ErrInvalidShareMethod
	}

	r, err := s.readableRecipe(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.ShareRecipeResponse{}, err
	}

	now := s.now().UTC()
	share := domain.RecipeShare{
		ID:             uuid.NewString(),
		RecipeID:       req.RecipeID,
		SharedByUserID: userID,
		ShareMethod:    req.ShareMethod,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		CreatedAt:      now,
	}
	share.ShareLink = fmt.Sprintf("%s/shared/%s", s.appURL, share.ID)
	if req.ExpiresInDays > 0 {
		expires := now.AddDate(0, 0, req.ExpiresInDays)
		share.ExpiresAt = &expires
	}

	switch req.ShareMethod {
	case domain.ShareEmail:
		body := mailing.RecipeShareBody(userID, r.Title, share.ShareLink, req.Message)
		if err := s.mailer.Send(req.RecipientEmail, "A recipe for you: "+r.Title, body); err != nil {
			s.log.Warn("failed to send share email", "share_id", share.ID, "error", err)
		} else {
			share.EmailSent = true
		}
	case domain.ShareExportPDF:
		key := fmt.Sprintf("exports/%s.txt", share.ID)
		if _, err := s.storage.PutObject(ctx, key, "text/plain; charset=utf-8", []byte(RenderExport(r))); err != nil {
			s.log.Warn("failed to upload recipe export", "share_id", share.ID, "error", err)
		} else {
			share.ExportURL = s.storage.GetPublicLinkKey(key)
		}
	}

	if err := s.interactionRepository.CreateShare(ctx, share); err != nil {
		return domain.ShareRecipeResponse{}, fmt.Errorf("create share: %w", err)
	}

	s.addHistory(ctx, userID, r, domain.ActionShared, map[string]any{
		"share_method":    req.ShareMethod,
		"recipient_email": req.RecipientEmail,
		"share_link":      share.ShareLink,
	})
	s.track(ctx, userID, domain.EventShared, map[string]any{"recipe_id": r.ID, "share_method": req.ShareMethod})

	s.log.Info("recipe shared", "user_id", userID, "recipe_id", req.RecipeID, "share_method", req.ShareMethod)
	return domain.ShareRecipeResponse{
		ShareID:   share.ID,
		ShareLink: share.ShareLink,
		ExpiresAt: share.ExpiresAt,
		EmailSent: share.EmailSent,
		ExportURL: share.ExportURL,
	}, nil
}

func (s *interactionService) GetFavorites(ctx context.Context, userID string, limit int) ([]domain.RecipeInteractionResponse, error) {
	if limit <= 0 {
		limit = defaultFavoritesLimit
	}
	interactions, err := s.interactionRepository.GetUserInteractions(ctx, userID, true, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecipeInteractionResponse, len(interactions))
	for i, in := range interactions {
		out[i] = toResponse(in)
	}
	return out, nil
}

func (s *interactionService) GetRecipeHistory(ctx context.Context, userID string, limit, offset int) (domain.RecipeHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.recipeRepository.GetRecipeHistory(ctx, userID, "", limit+1, offset)
	if err != nil {
		return domain.RecipeHistoryResponse{}, err
	}
	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	return domain.RecipeHistoryResponse{Entries: entries, Total: len(entries), HasMore: hasMore}, nil
}

func (s *interactionService) GetUserStats(ctx context.Context, userID string) (domain.UserStatsResponse, error) {
	interactions, err := s.interactionRepository.GetUserInteractions(ctx, userID, false, 0)
	if err != nil {
		return domain.UserStatsResponse{}, err
	}
	history, err := s.recipeRepository.GetRecipeHistory(ctx, userID, domain.ActionGenerated, statsHistoryLimit, 0)
	if err != nil {
		return domain.UserStatsResponse{}, err
	}
	collections, err := s.interactionRepository.CountCollections(ctx, userID)
	if err != nil {
		s.log.Warn("failed to count collections", "user_id", userID, "error", err)
	}

	stats := domain.UserStatsResponse{
		TotalRecipes:     len(interactions),
		CollectionsCount: int(collections),
		CookingStreak:    min(len(history), maxCookingStreak),
	}
	sum := 0
	for _, in := range interactions {
		if in.IsFavorite {
			stats.FavoriteRecipes++
		}
		if in.Rating != nil {
			stats.TotalRatings++
			sum += *in.Rating
		}
	}
	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.AverageRating = &avg
	}

	var ingredients, cuisines []string
	for _, h := range history {
		for _, ing := range h.RecipeData.Ingredients {
			ingredients = append(ingredients, ing.Name)
		}
		cuisines = append(cuisines, h.RecipeData.Cuisine)
	}
	stats.MostUsedIngredients = mostCommon(ingredients, 5)
	stats.FavoriteCuisines = mostCommon(cuisines, 3)

	return stats, nil
}

// mostCommon ranks values by frequency; ties keep first-seen order.
func mostCommon(values []string, n int) []string {
	counts := map[string]int{}
	order := []string{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func (s *interactionService) CreateCollection(ctx context.Context, userID string, req domain.CreateCollectionRequest) (domain.RecipeCollection, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.RecipeCollection{}, domain.ErrCollectionNameNeeded
	}

	now := s.now().UTC()
	collection := domain.RecipeCollection{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		RecipeIDs:   req.RecipeIDs,
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if collection.RecipeIDs == nil {
		collection.RecipeIDs = []string{}
	}

	if err := s.interactionRepository.CreateCollection(ctx, collection); err != nil {
		return domain.RecipeCollection{}, fmt.Errorf("create collection: %w", err)
	}

	s.log.Info("recipe collection created", "user_id", userID, "collection_id", collection.ID)
	return collection, nil
}

func (s *interactionService) TrackRecipeView(ctx context.Context, userID string, req domain.TrackViewRequest) (domain.RecipeInteractionResponse, error) {
	r, err := s.readableRecipe(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	i, err := s.getOrNew(ctx, userID, req.RecipeID)
	if err != nil {
		return domain.RecipeInteractionResponse{}, err
	}

	i.AccessCount++
	i.LastAccessed = s.now().UTC()
	if err := s.save(ctx, &i); err != nil {
		return domain.RecipeInteractionResponse{}, err
	}
	s.addHistory(ctx, userID, r, domain.ActionViewed, nil)
	s.track(ctx, userID, domain.EventViewed, map[string]any{
		"recipe_id":  r.ID,
		"cuisine":    r.Cuisine,
		"difficulty": r.Difficulty,
	})

	return toResponse(i), nil
}
