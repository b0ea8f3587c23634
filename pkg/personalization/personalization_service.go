package personalization

import (
	"context"
	"fmt"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/metrics"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/recipe"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRecommendationLimit = 10
	summaryWindow              = 30 * 24 * time.Hour
	defaultDeviceType          = "web"
)

var (
	trendingEventTypes = []string{domain.EventGenerated, domain.EventViewed, domain.EventFavorited}

	trendWindows = map[string]time.Duration{
		domain.TrendDay:   24 * time.Hour,
		domain.TrendWeek:  7 * 24 * time.Hour,
		domain.TrendMonth: 30 * 24 * time.Hour,
	}

	moodFilters = map[string]recipe.RecipeFilter{
		"comfort":     {Tag: "comfort"},
		"healthy":     {Tag: "healthy"},
		"adventurous": {Difficulty: domain.DifficultyHard},
		"quick":       {MaxCookingTime: 30},
		"indulgent":   {Tag: "dessert"},
		"light":       {Tag: "light"},
	}

	validEventTypes = map[string]struct{}{
		domain.EventGenerated: {},
		domain.EventViewed:    {},
		domain.EventFavorited: {},
		domain.EventShared:    {},
		domain.EventRated:     {},
	}
)

// ProfileUpdater bumps the per-cuisine counter on a user's preferences.
type ProfileUpdater interface {
	IncrementCuisinePreference(ctx context.Context, userID, cuisine string) error
}

type (
	PersonalizationService interface {
		TrackBehavior(ctx context.Context, userID string, req domain.TrackBehaviorRequest) (domain.BehaviorEvent, error)
		GetBehaviorSummary(ctx context.Context, userID string) (domain.UserBehaviorSummary, error)
		GetRecommendations(ctx context.Context, userID string, limit int) []domain.RecommendationCandidate
		GetTrending(ctx context.Context, window string, limit int) ([]domain.TrendingRecipe, error)
		GetMoodRecommendations(ctx context.Context, userID, mood string, limit int) ([]domain.RecommendationCandidate, error)
	}

	personalizationService struct {
		behaviorRepository BehaviorRepository
		recipeRepository   recipe.RecipeRepository
		profiles           ProfileUpdater
		cache              cache.Cache
		log                *logger.Logger
		now                func() time.Time
	}
)

func NewPersonalizationService(behaviorRepository BehaviorRepository, recipeRepository recipe.RecipeRepository, profiles ProfileUpdater, c cache.Cache, log *logger.Logger) PersonalizationService {
	return &personalizationService{
		behaviorRepository: behaviorRepository,
		recipeRepository:   recipeRepository,
		profiles:           profiles,
		cache:              c,
		log:                log.With("service", "PersonalizationService"),
		now:                time.Now,
	}
}

func summaryKey(userID string) string {
	return cache.GenerateKey(cache.NamespaceUserBehavior, map[string]any{"user_id": userID})
}

// NormalizeWindow maps unknown trend windows to week.
func NormalizeWindow(window string) string {
	if _, ok := trendWindows[window]; ok {
		return window
	}
	return domain.TrendWeek
}

func (s *personalizationService) TrackBehavior(ctx context.Context, userID string, req domain.TrackBehaviorRequest) (domain.BehaviorEvent, error) {
	if _, ok := validEventTypes[req.EventType]; !ok {
		return domain.BehaviorEvent{}, domain.ErrInvalidEventType
	}

	event := domain.BehaviorEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		EventType:  req.EventType,
		EventData:  req.EventData,
		Timestamp:  s.now().UTC(),
		SessionID:  req.SessionID,
		DeviceType: req.DeviceType,
	}
	if event.EventData == nil {
		event.EventData = map[string]any{}
	}
	if event.DeviceType == "" {
		event.DeviceType = defaultDeviceType
	}

	if err := s.behaviorRepository.AddEvent(ctx, event); err != nil {
		s.log.Error("failed to track behavior", "user_id", userID, "event_type", req.EventType, "error", err)
		return domain.BehaviorEvent{}, fmt.Errorf("track behavior: %w", err)
	}
	metrics.BehaviorEvents.WithLabelValues(event.EventType).Inc()
	s.cache.Delete(ctx, summaryKey(userID))

	if cuisine := stringField(event.EventData, "cuisine"); event.EventType == domain.EventGenerated && cuisine != "" && s.profiles != nil {
		if err := s.profiles.IncrementCuisinePreference(ctx, userID, cuisine); err != nil {
			s.log.Warn("failed to update cuisine preference", "user_id", userID, "cuisine", cuisine, "error", err)
		}
	}

	return event, nil
}

func (s *personalizationService) GetBehaviorSummary(ctx context.Context, userID string) (domain.UserBehaviorSummary, error) {
	return cache.GetOrLoad(ctx, s.cache, summaryKey(userID), cache.TTLUserBehavior, func(ctx context.Context) (domain.UserBehaviorSummary, error) {
		events, err := s.behaviorRepository.GetUserEvents(ctx, userID, s.now().UTC().Add(-summaryWindow))
		if err != nil {
			return domain.UserBehaviorSummary{}, err
		}
		return Summarize(events), nil
	})
}

func (s *personalizationService) GetRecommendations(ctx context.Context, userID string, limit int) []domain.RecommendationCandidate {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	summary, err := s.GetBehaviorSummary(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load behavior summary", "user_id", userID, "error", err)
		summary = domain.UserBehaviorSummary{}
	}

	candidates := s.cuisineCandidates(ctx, summary, limit)

	trending, _ := s.GetTrending(ctx, domain.TrendWeek, limit/2)
	for _, t := range trending {
		candidates = append(candidates, domain.RecommendationCandidate{
			Recipe:               t.Recipe,
			RecommendationReason: "Trending this week",
			RecommendationType:   domain.RecommendationTrending,
		})
	}

	return Rank(candidates, summary, limit)
}

// cuisineCandidates queries the top three cuisines concurrently and returns
// their recipes in cuisine rank order.
func (s *personalizationService) cuisineCandidates(ctx context.Context, summary domain.UserBehaviorSummary, limit int) []domain.RecommendationCandidate {
	top := summary.FavoriteCuisines
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) == 0 {
		return nil
	}
	perCuisine := (limit/3)/len(top) + 1

	results := make([][]domain.Recipe, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, cuisine := range top {
		i, cuisine := i, cuisine
		g.Go(func() error {
			recipes, err := s.recipeRepository.FindRecipes(gctx, recipe.RecipeFilter{Cuisine: cuisine, PublicOnly: true, Limit: perCuisine})
			if err != nil {
				s.log.Warn("failed to query cuisine recipes", "cuisine", cuisine, "error", err)
				return nil
			}
			results[i] = recipes
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.RecommendationCandidate
	for i, recipes := range results {
		for _, r := range recipes {
			out = append(out, domain.RecommendationCandidate{
				Recipe:               r,
				RecommendationReason: fmt.Sprintf("Based on your love for %s cuisine", top[i]),
				RecommendationType:   domain.RecommendationCuisine,
			})
		}
	}
	return out
}

func (s *personalizationService) GetTrending(ctx context.Context, window string, limit int) ([]domain.TrendingRecipe, error) {
	window = NormalizeWindow(window)
	if limit <= 0 {
		return []domain.TrendingRecipe{}, nil
	}
	key := cache.GenerateKey(cache.NamespaceTrending, map[string]any{"window": window, "limit": limit})

	trending, err := cache.GetOrLoad(ctx, s.cache, key, cache.TTLTrending, func(ctx context.Context) ([]domain.TrendingRecipe, error) {
		events, err := s.behaviorRepository.GetEventsByType(ctx, trendingEventTypes, s.now().UTC().Add(-trendWindows[window]))
		if err != nil {
			return nil, err
		}

		// Rank everything and cut after the visibility filter so private
		// or deleted recipes never take a slot.
		out := make([]domain.TrendingRecipe, 0, limit)
		for _, ts := range RankTrending(events, -1) {
			if len(out) == limit {
				break
			}
			r, err := s.recipeRepository.GetRecipeByID(ctx, ts.RecipeID)
			if err != nil {
				s.log.Debug("skipping trending recipe", "recipe_id", ts.RecipeID, "error", err)
				continue
			}
			if !r.IsPublic {
				continue
			}
			out = append(out, domain.TrendingRecipe{Recipe: r, TrendingScore: ts.Score, TrendPeriod: window})
		}
		return out, nil
	})
	if err != nil {
		s.log.Warn("failed to load trending recipes", "window", window, "error", err)
		return []domain.TrendingRecipe{}, nil
	}
	return trending, nil
}

func (s *personalizationService) GetMoodRecommendations(ctx context.Context, userID, mood string, limit int) ([]domain.RecommendationCandidate, error) {
	filter, ok := moodFilters[mood]
	if !ok {
		return nil, domain.ErrInvalidMood
	}
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	filter.PublicOnly = true
	filter.Limit = limit

	recipes, err := s.recipeRepository.FindRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mood recommendations: %w", err)
	}

	summary, err := s.GetBehaviorSummary(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load behavior summary", "user_id", userID, "error", err)
	}

	candidates := make([]domain.RecommendationCandidate, 0, len(recipes))
	for _, r := range recipes {
		candidates = append(candidates, domain.RecommendationCandidate{
			Recipe:               r,
			RecommendationReason: fmt.Sprintf("Perfect for a %s mood", mood),
			RecommendationType:   domain.RecommendationMood,
		})
	}
	return Rank(candidates, summary, limit), nil
}
