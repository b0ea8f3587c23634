package interaction

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/storage"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	err     error
}

func (s *fakeStorage) UploadFile(string, *multipart.FileHeader, string, ...string) (string, error) {
	return "", errors.New("not used")
}

func (s *fakeStorage) UpdateFile(string, *multipart.FileHeader, ...string) (string, error) {
	return "", errors.New("not used")
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.objects[key] = body
	return key, nil
}

func (s *fakeStorage) DeleteFile(string) error { return nil }

func (s *fakeStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func (s *fakeStorage) GetPublicLinkKey(key string) string { return "https://cdn.test/" + key }

var _ storage.AwsS3 = (*fakeStorage)(nil)

type recordingTracker struct {
	events []domain.TrackBehaviorRequest
}

func (t *recordingTracker) TrackBehavior(_ context.Context, userID string, req domain.TrackBehaviorRequest) (domain.BehaviorEvent, error) {
	t.events = append(t.events, req)
	return domain.BehaviorEvent{UserID: userID, EventType: req.EventType}, nil
}

func (t *recordingTracker) types() []string {
	out := make([]string, len(t.events))
	for i, e := range t.events {
		out[i] = e.EventType
	}
	return out
}

type fixture struct {
	svc          *interactionService
	store        *docstore.MemoryStore
	recipes      recipe.RecipeRepository
	interactions InteractionRepository
	tracker      *recordingTracker
	mailer       *fakeMailer
	storage      *fakeStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	f := &fixture{
		store:        store,
		recipes:      recipe.NewRecipeRepository(store),
		interactions: NewInteractionRepository(store),
		tracker:      &recordingTracker{},
		mailer:       &fakeMailer{},
		storage:      &fakeStorage{objects: map[string][]byte{}},
	}
	svc := NewInteractionService(f.interactions, f.recipes, f.tracker, f.mailer, f.storage, "https://app.test/", logger.NewNop()).(*interactionService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc

	require.NoError(t, f.recipes.CreateRecipe(context.Background(), sampleRecipe("r1", "Garlic Rice", "asian")))
	return f
}

func sampleRecipe(id, title, cuisine string) domain.Recipe {
	dur := 10
	return domain.Recipe{
		ID:           id,
		Title:        title,
		Description:  "A simple weeknight dish",
		Cuisine:      cuisine,
		Difficulty:   domain.DifficultyEasy,
		Servings:     2,
		Ingredients:  []domain.RecipeIngredient{{Name: "rice", Amount: "1", Unit: "cup"}, {Name: "garlic", Amount: "3", Unit: "clove"}},
		Instructions: []domain.RecipeStep{{StepNumber: 1, Instruction: "Cook the rice", Duration: &dur}},
		IsPublic:     true,
	}
}

func TestSaveRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SaveRecipe(ctx, "u1", domain.SaveRecipeRequest{RecipeID: "r1", Notes: "weeknight", Tags: []string{"quick"}})
	require.NoError(t, err)
	assert.Equal(t, "weeknight", res.Notes)
	assert.Equal(t, []string{"quick"}, res.Tags)

	doc, err := f.store.Get(ctx, docstore.CollectionUserRecipeInteraction, "u1_r1")
	require.NoError(t, err)
	assert.Equal(t, "weeknight", doc["notes"])

	history, err := f.recipes.GetRecipeHistory(ctx, "u1", domain.ActionSaved, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Garlic Rice", history[0].RecipeData.Title)

	_, err = f.svc.SaveRecipe(ctx, "u1", domain.SaveRecipeRequest{RecipeID: "missing"})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestToggleFavoriteFlips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	on, err := f.svc.ToggleFavorite(ctx, "u1", domain.FavoriteRecipeRequest{RecipeID: "r1"})
	require.NoError(t, err)
	assert.True(t, on.IsFavorite)

	favs, err := f.svc.GetFavorites(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "r1", favs[0].RecipeID)

	off, err := f.svc.ToggleFavorite(ctx, "u1", domain.FavoriteRecipeRequest{RecipeID: "r1"})
	require.NoError(t, err)
	assert.False(t, off.IsFavorite)

	favs, err = f.svc.GetFavorites(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, favs)

	assert.Equal(t, []string{domain.EventFavorited}, f.tracker.types(), "only becoming a favorite emits an event")
}

func TestRateRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "r1", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
	_, err = f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "r1", Rating: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = f.svc.SaveRecipe(ctx, "u1", domain.SaveRecipeRequest{RecipeID: "r1", Notes: "keep"})
	require.NoError(t, err)

	res, err := f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "r1", Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, res.Rating)
	assert.Equal(t, 4, *res.Rating)
	assert.Equal(t, "keep", res.Notes, "an empty review leaves notes alone")
	assert.Equal(t, []string{domain.EventRated}, f.tracker.types())
}

func TestShareByLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: domain.ShareLink, ExpiresInDays: 7})
	require.NoError(t, err)

	assert.Equal(t, "https://app.test/shared/"+res.ShareID, res.ShareLink)
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 7), *res.ExpiresAt)
	assert.False(t, res.EmailSent)

	doc, err := f.store.Get(ctx, docstore.CollectionRecipeShares, res.ShareID)
	require.NoError(t, err)
	assert.Equal(t, "u1", doc["shared_by_user_id"])
	assert.Equal(t, []string{domain.EventShared}, f.tracker.types())
}

func TestShareByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: domain.ShareEmail})
	assert.ErrorIs(t, err, domain.ErrRecipientRequired)

	res, err := f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{
		RecipeID:       "r1",
		ShareMethod:    domain.ShareEmail,
		RecipientEmail: "friend@example.com",
		Message:        "try <this>",
	})
	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "friend@example.com", f.mailer.sent[0].to)
	assert.Contains(t, f.mailer.sent[0].subject, "Garlic Rice")
	assert.Contains(t, f.mailer.sent[0].body, res.ShareLink)
	assert.Contains(t, f.mailer.sent[0].body, "try &lt;this&gt;")

	f.mailer.err = errors.New("smtp down")
	res, err = f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: domain.ShareEmail, RecipientEmail: "friend@example.com"})
	require.NoError(t, err, "a failed send still records the share")
	assert.False(t, res.EmailSent)
}

func TestShareExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: domain.ShareExportPDF})
	require.NoError(t, err)

	key := "exports/" + res.ShareID + ".txt"
	assert.Equal(t, "https://cdn.test/"+key, res.ExportURL)
	require.Contains(t, f.storage.objects, key)
	assert.Contains(t, string(f.storage.objects[key]), "Garlic Rice")

	f.storage.err = storage.ErrStorageNotConfigured
	res, err = f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: domain.ShareExportPDF})
	require.NoError(t, err)
	assert.Empty(t, res.ExportURL)
}

func TestShareRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ShareRecipe(context.Background(), "u1", domain.ShareRecipeRequest{RecipeID: "r1", ShareMethod: "fax"})
	assert.ErrorIs(t, err, domain.ErrInvalidShareMethod)
}

func TestGetRecipeHistoryHasMore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.svc.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		_, err := f.svc.TrackRecipeView(ctx, "u1", domain.TrackViewRequest{RecipeID: "r1"})
		require.NoError(t, err)
	}

	page, err := f.svc.GetRecipeHistory(ctx, "u1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasMore)
	assert.True(t, page.Entries[0].Timestamp.After(page.Entries[1].Timestamp), "newest first")

	page, err = f.svc.GetRecipeHistory(ctx, "u1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
}

func TestTrackRecipeView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.TrackRecipeView(ctx, "u1", domain.TrackViewRequest{RecipeID: "r1"})
	require.NoError(t, err)
	res, err := f.svc.TrackRecipeView(ctx, "u1", domain.TrackViewRequest{RecipeID: "r1"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.AccessCount)
	assert.Equal(t, fixedNow, res.LastAccessed)
	assert.Equal(t, []string{domain.EventViewed, domain.EventViewed}, f.tracker.types())
	assert.Equal(t, "r1", f.tracker.events[0].EventData["recipe_id"])
}

func TestPrivateRecipeInteractions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	private := sampleRecipe("p1", "Family Curry", "indian")
	private.UserID = "owner"
	private.IsPublic = false
	require.NoError(t, f.recipes.CreateRecipe(ctx, private))

	_, err := f.svc.SaveRecipe(ctx, "u1", domain.SaveRecipeRequest{RecipeID: "p1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	_, err = f.svc.ToggleFavorite(ctx, "u1", domain.FavoriteRecipeRequest{RecipeID: "p1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	_, err = f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "p1", Rating: 5})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	_, err = f.svc.ShareRecipe(ctx, "u1", domain.ShareRecipeRequest{RecipeID: "p1", ShareMethod: domain.ShareLink})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	_, err = f.svc.TrackRecipeView(ctx, "u1", domain.TrackViewRequest{RecipeID: "p1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
	assert.Empty(t, f.tracker.events)

	res, err := f.svc.ToggleFavorite(ctx, "owner", domain.FavoriteRecipeRequest{RecipeID: "p1"})
	require.NoError(t, err)
	assert.True(t, res.IsFavorite)
}

func TestGetUserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.recipes.CreateRecipe(ctx, sampleRecipe("r2", "Fried Rice", "asian")))
	require.NoError(t, f.recipes.CreateRecipe(ctx, sampleRecipe("r3", "Risotto", "italian")))

	for _, id := range []string{"r1", "r2", "r3"} {
		r, err := f.recipes.GetRecipeByID(ctx, id)
		require.NoError(t, err)
		require.NoError(t, f.recipes.AddRecipeHistory(ctx, domain.RecipeHistoryEntry{
			ID: "h-" + id, UserID: "u1", RecipeID: id, RecipeData: r, Action: domain.ActionGenerated, Timestamp: fixedNow,
		}))
	}

	_, err := f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "r1", Rating: 5})
	require.NoError(t, err)
	_, err = f.svc.RateRecipe(ctx, "u1", domain.RateRecipeRequest{RecipeID: "r2", Rating: 2})
	require.NoError(t, err)
	_, err = f.svc.ToggleFavorite(ctx, "u1", domain.FavoriteRecipeRequest{RecipeID: "r3"})
	require.NoError(t, err)
	_, err = f.svc.CreateCollection(ctx, "u1", domain.CreateCollectionRequest{Name: "Weeknights", RecipeIDs: []string{"r1"}})
	require.NoError(t, err)

	stats, err := f.svc.GetUserStats(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecipes)
	assert.Equal(t, 1, stats.FavoriteRecipes)
	assert.Equal(t, 2, stats.TotalRatings)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 3.5, *stats.AverageRating, 1e-9)
	assert.Equal(t, 1, stats.CollectionsCount)
	assert.Equal(t, []string{"rice", "garlic"}, stats.MostUsedIngredients)
	assert.Equal(t, []string{"asian", "italian"}, stats.FavoriteCuisines)
	assert.Equal(t, 3, stats.CookingStreak)
}

func TestGetUserStatsEmpty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.GetUserStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats.AverageRating)
	assert.Zero(t, stats.CookingStreak)
}

func TestCreateCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCollection(ctx, "u1", domain.CreateCollectionRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrCollectionNameNeeded)

	c, err := f.svc.CreateCollection(ctx, "u1", domain.CreateCollectionRequest{Name: "Soups", IsPublic: true})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []string{}, c.RecipeIDs)

	doc, err := f.store.Get(ctx, docstore.CollectionRecipeCollections, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soups", doc["name"])
}

func TestRenderExport(t *testing.T) {
	r := sampleRecipe("r1", "Garlic Rice", "asian")
	r.Tips = []string{"Rinse the rice"}

	out := RenderExport(r)

	assert.True(t, strings.HasPrefix(out, "Garlic Rice\n===========\n"))
	assert.Contains(t, out, "- 1 cup rice\n")
	assert.Contains(t, out, "1. Cook the rice [10 min]\n")
	assert.Contains(t, out, "Tips\n- Rinse the rice\n")
	assert.NotContains(t, out, "Nutrition")
}
