package personalization

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingProfiles struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *recordingProfiles) IncrementCuisinePreference(_ context.Context, userID, cuisine string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, userID+":"+cuisine)
	return p.err
}

type failingBehavior struct{}

func (failingBehavior) AddEvent(context.Context, domain.BehaviorEvent) error {
	return errors.New("store down")
}

func (failingBehavior) GetUserEvents(context.Context, string, time.Time) ([]domain.BehaviorEvent, error) {
	return nil, errors.New("store down")
}

func (failingBehavior) GetEventsByType(context.Context, []string, time.Time) ([]domain.BehaviorEvent, error) {
	return nil, errors.New("store down")
}

type fixture struct {
	svc       *personalizationService
	behaviors BehaviorRepository
	recipes   recipe.RecipeRepository
	profiles  *recordingProfiles
	cache     cache.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	f := &fixture{
		behaviors: NewBehaviorRepository(store),
		recipes:   recipe.NewRecipeRepository(store),
		profiles:  &recordingProfiles{},
		cache:     cache.NewMemory(cache.MemoryConfig{}),
	}
	svc := NewPersonalizationService(f.behaviors, f.recipes, f.profiles, f.cache, logger.NewNop()).(*personalizationService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func (f *fixture) addRecipe(t *testing.T, r domain.Recipe) {
	t.Helper()
	require.NoError(t, f.recipes.CreateRecipe(context.Background(), r))
}

func (f *fixture) addEvent(t *testing.T, userID, eventType string, age time.Duration, data map[string]any) {
	t.Helper()
	require.NoError(t, f.behaviors.AddEvent(context.Background(), domain.BehaviorEvent{
		ID:        userID + "-" + eventType + "-" + age.String() + "-" + stringField(data, "recipe_id"),
		UserID:    userID,
		EventType: eventType,
		EventData: data,
		Timestamp: fixedNow.Add(-age),
	}))
}

func candidateIDs(cands []domain.RecommendationCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Recipe.ID
	}
	return out
}

func TestTrackBehaviorDefaults(t *testing.T) {
	f := newFixture(t)

	ev, err := f.svc.TrackBehavior(context.Background(), "u1", domain.TrackBehaviorRequest{
		EventType: domain.EventViewed,
		EventData: map[string]any{"recipe_id": "r1"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, "web", ev.DeviceType)
	assert.Equal(t, fixedNow, ev.Timestamp)

	events, err := f.behaviors.GetUserEvents(context.Background(), "u1", fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
	assert.Equal(t, "r1", events[0].EventData["recipe_id"])
	assert.Empty(t, f.profiles.calls, "only generated events touch preferences")
}

func TestTrackBehaviorRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TrackBehavior(context.Background(), "u1", domain.TrackBehaviorRequest{EventType: "clicked"})
	assert.ErrorIs(t, err, domain.ErrInvalidEventType)
}

func TestTrackBehaviorUpdatesCuisinePreference(t *testing.T) {
	f := newFixture(t)
	f.profiles.err = errors.New("profile missing")

	_, err := f.svc.TrackBehavior(context.Background(), "u1", domain.TrackBehaviorRequest{
		EventType:  domain.EventGenerated,
		EventData:  map[string]any{"recipe_id": "r1", "cuisine": "thai"},
		DeviceType: "mobile",
	})

	require.NoError(t, err, "preference update failures are not surfaced")
	assert.Equal(t, []string{"u1:thai"}, f.profiles.calls)
}

func TestTrackBehaviorStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.behaviorRepository = failingBehavior{}

	_, err := f.svc.TrackBehavior(context.Background(), "u1", domain.TrackBehaviorRequest{EventType: domain.EventViewed})
	assert.Error(t, err)
}

func TestBehaviorSummaryWindowAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEvent(t, "u1", domain.EventGenerated, time.Hour, map[string]any{"cuisine": "thai"})
	f.addEvent(t, "u1", domain.EventGenerated, 40*24*time.Hour, map[string]any{"cuisine": "french"})
	f.addEvent(t, "u2", domain.EventGenerated, time.Hour, map[string]any{"cuisine": "greek"})

	s, err := f.svc.GetBehaviorSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"thai"}, s.FavoriteCuisines)
	assert.Equal(t, 1, s.TotalActivities)

	f.addEvent(t, "u1", domain.EventGenerated, 2*time.Hour, map[string]any{"cuisine": "korean"})
	s, err = f.svc.GetBehaviorSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalActivities, "summary is served from cache")

	_, err = f.svc.TrackBehavior(ctx, "u1", domain.TrackBehaviorRequest{EventType: domain.EventViewed})
	require.NoError(t, err)
	s, err = f.svc.GetBehaviorSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalActivities, "tracking invalidates the summary")
}

func TestGetRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addRecipe(t, domain.Recipe{ID: "it1", Title: "Carbonara", Cuisine: "italian", Difficulty: "easy", IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "it2", Title: "Osso Buco", Cuisine: "italian", Difficulty: "hard", IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "mx1", Title: "Tacos", Cuisine: "mexican", Difficulty: "medium", IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "th1", Title: "Pad Thai", Cuisine: "thai", Difficulty: "medium", IsPublic: true})

	italian := map[string]any{"recipe_id": "it1", "cuisine": "italian", "difficulty": "easy"}
	f.addEvent(t, "u1", domain.EventGenerated, time.Hour, italian)
	f.addEvent(t, "u1", domain.EventGenerated, 2*time.Hour, italian)
	for i := 1; i <= 3; i++ {
		f.addEvent(t, "u2", domain.EventViewed, time.Duration(i)*time.Hour, map[string]any{"recipe_id": "th1"})
	}

	out := f.svc.GetRecommendations(ctx, "u1", 10)

	require.Equal(t, []string{"it1", "it2", "th1"}, candidateIDs(out))

	assert.Equal(t, domain.RecommendationCuisine, out[0].RecommendationType, "cuisine hit wins over its trending duplicate")
	assert.Equal(t, "Based on your love for italian cuisine", out[0].RecommendationReason)
	assert.InDelta(t, 4.0, out[0].RecommendationScore, 1e-9)
	assert.InDelta(t, 3.0, out[1].RecommendationScore, 1e-9)

	assert.Equal(t, domain.RecommendationTrending, out[2].RecommendationType)
	assert.Equal(t, "Trending this week", out[2].RecommendationReason)
	assert.InDelta(t, 2.5, out[2].RecommendationScore, 1e-9)

	assert.Len(t, f.svc.GetRecommendations(ctx, "u1", 2), 2)
}

func TestGetRecommendationsNewUser(t *testing.T) {
	f := newFixture(t)

	out := f.svc.GetRecommendations(context.Background(), "nobody", 10)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestGetRecommendationsNeverFails(t *testing.T) {
	f := newFixture(t)
	f.svc.behaviorRepository = failingBehavior{}

	out := f.svc.GetRecommendations(context.Background(), "u1", 10)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestGetTrending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addRecipe(t, domain.Recipe{ID: "A", Title: "A", IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "B", Title: "B", IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "P", Title: "Private", IsPublic: false})

	f.addEvent(t, "u1", domain.EventFavorited, time.Hour, map[string]any{"recipe_id": "A"})
	f.addEvent(t, "u2", domain.EventGenerated, 2*time.Hour, map[string]any{"recipe_id": "A"})
	f.addEvent(t, "u3", domain.EventViewed, 3*time.Hour, map[string]any{"recipe_id": "B"})
	f.addEvent(t, "u3", domain.EventFavorited, 4*time.Hour, map[string]any{"recipe_id": "P"})
	f.addEvent(t, "u3", domain.EventFavorited, 5*time.Hour, map[string]any{"recipe_id": "gone"})
	f.addEvent(t, "u4", domain.EventFavorited, 3*24*time.Hour, map[string]any{"recipe_id": "B"})

	day, err := f.svc.GetTrending(ctx, domain.TrendDay, 10)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "A", day[0].Recipe.ID)
	assert.Equal(t, 5, day[0].TrendingScore)
	assert.Equal(t, "B", day[1].Recipe.ID)
	assert.Equal(t, 1, day[1].TrendingScore)
	assert.Equal(t, domain.TrendDay, day[0].TrendPeriod)

	week, err := f.svc.GetTrending(ctx, "fortnight", 10)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, domain.TrendWeek, week[0].TrendPeriod)
	assert.Equal(t, 5, week[0].TrendingScore)
	assert.Equal(t, 4, week[1].TrendingScore, "older favorite falls inside the week window")

	none, err := f.svc.GetTrending(ctx, domain.TrendWeek, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetTrendingSkipsPrivateBeforeLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addRecipe(t, domain.Recipe{ID: "P", Title: "Private", UserID: "u1", IsPublic: false})
	f.addRecipe(t, domain.Recipe{ID: "B", Title: "Public", IsPublic: true})
	f.addEvent(t, "u1", domain.EventFavorited, time.Hour, map[string]any{"recipe_id": "P"})
	f.addEvent(t, "u2", domain.EventViewed, 2*time.Hour, map[string]any{"recipe_id": "B"})

	out, err := f.svc.GetTrending(ctx, domain.TrendWeek, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].Recipe.ID)
	assert.Equal(t, 1, out[0].TrendingScore)
}

func TestGetTrendingDegradesToEmpty(t *testing.T) {
	f := newFixture(t)
	f.svc.behaviorRepository = failingBehavior{}

	out, err := f.svc.GetTrending(context.Background(), domain.TrendDay, 10)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestGetMoodRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quick, slow := 20, 90
	f.addRecipe(t, domain.Recipe{ID: "q1", Title: "Omelette", CookingTime: quick, IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "s1", Title: "Braise", CookingTime: slow, IsPublic: true})
	f.addRecipe(t, domain.Recipe{ID: "d1", Title: "Brownies", CookingTime: slow, Tags: []string{"dessert"}, IsPublic: true})

	out, err := f.svc.GetMoodRecommendations(ctx, "u1", "quick", 10)
	require.NoError(t, err)
	require.Equal(t, []string{"q1"}, candidateIDs(out))
	assert.Equal(t, "Perfect for a quick mood", out[0].RecommendationReason)
	assert.Equal(t, domain.RecommendationMood, out[0].RecommendationType)

	out, err = f.svc.GetMoodRecommendations(ctx, "u1", "indulgent", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, candidateIDs(out))

	_, err = f.svc.GetMoodRecommendations(ctx, "u1", "sleepy", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidMood)
}

func TestNormalizeWindow(t *testing.T) {
	assert.Equal(t, domain.TrendDay, NormalizeWindow("day"))
	assert.Equal(t, domain.TrendMonth, NormalizeWindow("month"))
	assert.Equal(t, domain.TrendWeek, NormalizeWindow(""))
	assert.Equal(t, domain.TrendWeek, NormalizeWindow("year"))
}
