package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeDoc struct {
	Title       string    `json:"title"`
	Cuisine     string    `json:"cuisine"`
	CookingTime int       `json:"cooking_time"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"is_public"`
	PublishedAt time.Time `json:"published_at"`
}

func seed(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := map[string]recipeDoc{
		"r1": {Title: "Carbonara", Cuisine: "italian", CookingTime: 20, Tags: []string{"pasta", "quick"}, IsPublic: true, PublishedAt: base},
		"r2": {Title: "Lasagna", Cuisine: "italian", CookingTime: 90, Tags: []string{"pasta"}, IsPublic: true, PublishedAt: base.Add(time.Hour)},
		"r3": {Title: "Pad Thai", Cuisine: "thai", CookingTime: 25, Tags: []string{"noodles", "quick"}, IsPublic: false, PublishedAt: base.Add(2 * time.Hour)},
	}
	for _, id := range []string{"r1", "r2", "r3"} {
		doc, err := Encode(docs[id])
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, CollectionRecipes, id, doc))
	}
}

func TestMemoryStoreGetInjectsID(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)

	doc, err := s.Get(context.Background(), CollectionRecipes, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", doc["id"])
	assert.Equal(t, "Carbonara", doc["title"])
	assert.Contains(t, doc, "updated_at")

	var r recipeDoc
	require.NoError(t, Decode(doc, &r))
	assert.Equal(t, 20, r.CookingTime)

	_, err = s.Get(context.Background(), CollectionRecipes, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUnknownCollection(t *testing.T) {
	s := NewMemoryStore()
	err := s.Create(context.Background(), "recipes_typo", "x", Document{})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	require.NoError(t, s.Update(ctx, CollectionRecipes, "r1", Document{"cooking_time": 15}))
	doc, err := s.Get(ctx, CollectionRecipes, "r1")
	require.NoError(t, err)
	assert.Equal(t, float64(15), doc["cooking_time"])
	assert.Equal(t, "Carbonara", doc["title"])

	err = s.Update(ctx, CollectionRecipes, "missing", Document{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreQueryFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	docs, err := s.Query(ctx, CollectionRecipes, QueryOptions{
		Filters: []Filter{Where("cooking_time", OpLte, 30)},
		OrderBy: &OrderBy{Field: "published_at", Desc: true, As: KindTime},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "r3", docs[0]["id"])
	assert.Equal(t, "r1", docs[1]["id"])

	docs, err = s.Query(ctx, CollectionRecipes, QueryOptions{
		Filters: []Filter{Where("tags", OpArrayContains, "pasta"), Where("is_public", OpEq, true)},
		OrderBy: &OrderBy{Field: "cooking_time", Desc: true, As: KindNumber},
		Limit:   1,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r2", docs[0]["id"])

	docs, err = s.Query(ctx, CollectionRecipes, QueryOptions{
		Filters: []Filter{Where("cuisine", OpIn, []string{"thai", "mexican"})},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "r3", docs[0]["id"])

	since := time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC)
	n, err := s.Count(ctx, CollectionRecipes, []Filter{Where("published_at", OpGte, since)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryStoreQueryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	docs, err := s.Query(ctx, CollectionRecipes, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	docs[0]["title"] = "changed"

	again, err := s.Get(ctx, CollectionRecipes, docs[0]["id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again["title"])
}

func TestMemoryStoreBatchWriteIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	err := s.BatchWrite(ctx, []BatchOp{
		{Type: BatchDelete, Collection: CollectionRecipes, DocumentID: "r1"},
		{Type: BatchUpdate, Collection: CollectionRecipes, DocumentID: "missing", Data: Document{"a": 1}},
	})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, CollectionRecipes, "r1")
	assert.NoError(t, err, "failed batch must not apply earlier ops")

	err = s.BatchWrite(ctx, []BatchOp{
		{Type: BatchSet, Collection: CollectionShoppingLists, DocumentID: "l1", Data: Document{"name": "weekly"}},
		{Type: BatchUpdate, Collection: CollectionShoppingLists, DocumentID: "l1", Data: Document{"checked": true}},
		{Type: BatchDelete, Collection: CollectionRecipes, DocumentID: "r1"},
	})
	require.NoError(t, err)

	doc, err := s.Get(ctx, CollectionShoppingLists, "l1")
	require.NoError(t, err)
	assert.Equal(t, true, doc["checked"])
	_, err = s.Get(ctx, CollectionRecipes, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}
