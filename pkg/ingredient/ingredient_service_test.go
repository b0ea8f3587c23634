package ingredient

import (
	"context"
	"testing"

	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	suggestions []string
	calls       int
}

func (g *stubGenerator) Generate(context.Context, domain.GenerateRecipeRequest) (domain.Recipe, error) {
	return domain.Recipe{}, nil
}

func (g *stubGenerator) SuggestIngredients(context.Context, string) []string {
	g.calls++
	return g.suggestions
}

func (g *stubGenerator) GenerateVariations(context.Context, domain.Recipe) []domain.RecipeSuggestion {
	return nil
}

type fixture struct {
	svc     IngredientService
	store   *docstore.MemoryStore
	recipes recipe.RecipeRepository
	lists   ShoppingListRepository
	gen     *stubGenerator
}

func newFixture() *fixture {
	store := docstore.NewMemoryStore()
	f := &fixture{
		store:   store,
		recipes: recipe.NewRecipeRepository(store),
		lists:   NewShoppingListRepository(store),
		gen:     &stubGenerator{suggestions: []string{"tomato", "tomatillo"}},
	}
	f.svc = NewIngredientService(f.recipes, f.lists, f.gen, cache.NewMemory(cache.MemoryConfig{}), logger.NewNop())
	return f
}

func ingredientNames(list []domain.Ingredient) []string {
	out := make([]string, len(list))
	for i, ing := range list {
		out[i] = ing.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Search(ctx, "PE", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"pepper"}, ingredientNames(res))

	res, err = f.svc.Search(ctx, "o", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "onion", "olive oil"}, ingredientNames(res))

	res, err = f.svc.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, res, 8)
	assert.Equal(t, []string{"clove", "head", "tsp"}, res[4].CommonUnits)

	res, err = f.svc.Search(ctx, "truffle", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestCategoriesAndPopular(t *testing.T) {
	f := newFixture()

	cats := f.svc.Categories()
	assert.Len(t, cats, 10)
	assert.Equal(t, "protein", cats[0])
	cats[0] = "mutated"
	assert.Equal(t, "protein", f.svc.Categories()[0])

	assert.Len(t, f.svc.Popular(0), 10)
	assert.Equal(t, []string{"chicken", "rice"}, ingredientNames(f.svc.Popular(2)))
}

func TestSuggestions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.Empty(t, f.svc.Suggestions(ctx, " t "))
	assert.Equal(t, 0, f.gen.calls)

	assert.Equal(t, []string{"tomato", "tomatillo"}, f.svc.Suggestions(ctx, "tom"))
	assert.Equal(t, 1, f.gen.calls)
}

func TestPairings(t *testing.T) {
	f := newFixture()

	out := f.svc.Pairings([]string{"Chicken", "tomato", "garlic"}, 0)

	names := make([]string, len(out))
	for i, p := range out {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"onion", "herbs", "lemon", "basil", "olive oil"}, names)
	assert.Equal(t, "Pairs well with Chicken", out[0].Reason)
	assert.Equal(t, "complementary", out[0].Category)

	assert.Empty(t, f.svc.Pairings([]string{"saffron"}, 5))
}

func TestMergeIngredients(t *testing.T) {
	recipes := []domain.Recipe{
		{ID: "r1", Ingredients: []domain.RecipeIngredient{
			{Name: "Rice", Amount: "1", Unit: "cup"},
			{Name: "garlic", Amount: "2", Unit: "clove"},
			{Name: "salt", Amount: "to taste", Unit: "pinch"},
		}},
		{ID: "r2", Ingredients: []domain.RecipeIngredient{
			{Name: "rice", Amount: "1.5", Unit: "Cup"},
			{Name: "garlic", Amount: "1", Unit: "tsp"},
			{Name: "salt", Amount: "1", Unit: "pinch"},
			{Name: "egg", Amount: "2"},
		}},
	}

	items := MergeIngredients(recipes)

	require.Len(t, items, 4)
	assert.Equal(t, domain.ShoppingListItem{Name: "rice", Amount: "2.5", Unit: "cup", RecipeIDs: []string{"r1", "r2"}}, items[0])
	assert.Equal(t, "2", items[1].Amount, "different units are not summed")
	assert.Equal(t, "clove", items[1].Unit)
	assert.Equal(t, "to taste", items[2].Amount)
	assert.Equal(t, domain.ShoppingListItem{Name: "egg", Amount: "2", Unit: "piece", RecipeIDs: []string{"r2"}}, items[3])
}

func TestCreateShoppingList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.recipes.CreateRecipe(ctx, domain.Recipe{ID: "r1", UserID: "u1", Ingredients: []domain.RecipeIngredient{{Name: "onion", Amount: "1", Unit: "piece"}}}))
	require.NoError(t, f.recipes.CreateRecipe(ctx, domain.Recipe{ID: "r2", IsPublic: true, Ingredients: []domain.RecipeIngredient{{Name: "Onion", Amount: "2", Unit: "piece"}}}))
	require.NoError(t, f.recipes.CreateRecipe(ctx, domain.Recipe{ID: "p1", UserID: "u2", Ingredients: []domain.RecipeIngredient{{Name: "onion", Amount: "5", Unit: "piece"}}}))

	list, err := f.svc.CreateShoppingList(ctx, "u1", domain.CreateShoppingListRequest{Name: "Week", RecipeIDs: []string{"r1", "r2", "p1", "missing"}})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "3", list.Items[0].Amount, "another user's private recipe is skipped")

	doc, err := f.store.Get(ctx, docstore.CollectionShoppingLists, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", doc["user_id"])
	assert.Equal(t, "Week", doc["name"])

	saved, err := f.lists.GetUserShoppingLists(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, list.ID, saved[0].ID)
	assert.Equal(t, []string{"r1", "r2", "p1", "missing"}, saved[0].RecipeIDs)

	none, err := f.lists.GetUserShoppingLists(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.CreateShoppingList(ctx, "u1", domain.CreateShoppingListRequest{Name: "Empty", RecipeIDs: []string{"missing", "p1"}})
	assert.ErrorIs(t, err, domain.ErrEmptyShoppingList)
}
