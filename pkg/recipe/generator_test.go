package recipe

import (
	"context"
	"errors"
	"recipe-ai-backend/domain"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/llm"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply string
	err   error
	reqs  []llm.ChatRequest
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func (f *fakeLLM) ChatJSON(ctx context.Context, req llm.ChatRequest) (string, error) {
	return f.Chat(ctx, req)
}

func newTestGenerator(f *fakeLLM) *generator {
	g := NewGenerator(f, logger.NewNop()).(*generator)
	g.now = func() time.Time { return fixedNow }
	return g
}

func TestBuildRecipePrompt(t *testing.T) {
	p := buildRecipePrompt(domain.GenerateRecipeRequest{
		Ingredients:         []string{"chicken", "rice"},
		DietaryRestrictions: []string{"halal"},
		PreferredCuisine:    "thai",
		MaxCookingTime:      40,
	})

	assert.True(t, strings.HasPrefix(p, "Create a detailed recipe using these ingredients: chicken, rice"))
	assert.Contains(t, p, "- Servings: 4")
	assert.Contains(t, p, "- Dietary restrictions: halal")
	assert.Contains(t, p, "- Cuisine style: thai")
	assert.Contains(t, p, "- Maximum cooking time: 40 minutes")
	assert.NotContains(t, p, "Difficulty level")
	assert.NotContains(t, p, "Additional notes")
	assert.Contains(t, p, `"substitutions"`)
}

func TestGenerateNormalizesReply(t *testing.T) {
	f := &fakeLLM{reply: "```json\n" + `{"title":"Fried Rice","description":"Quick","ingredients":["rice"],"instructions":["fry"]}` + "\n```"}
	g := newTestGenerator(f)

	r, err := g.Generate(context.Background(), domain.GenerateRecipeRequest{Ingredients: []string{"rice"}})
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", r.Title)
	assert.Equal(t, "recipe_1748779200", r.ID)

	require.Len(t, f.reqs, 1)
	assert.Equal(t, "system", f.reqs[0].Messages[0].Role)
	assert.Equal(t, systemPrompt, f.reqs[0].Messages[0].Content)
}

func TestGenerateFailures(t *testing.T) {
	ctx := context.Background()
	req := domain.GenerateRecipeRequest{Ingredients: []string{"rice"}}

	_, err := newTestGenerator(&fakeLLM{err: errors.New("timeout")}).Generate(ctx, req)
	assert.Error(t, err)

	_, err = newTestGenerator(&fakeLLM{reply: "no json here"}).Generate(ctx, req)
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = newTestGenerator(&fakeLLM{reply: `{"title":"T","description":"D","instructions":["x"]}`}).Generate(ctx, req)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSuggestIngredients(t *testing.T) {
	ctx := context.Background()

	g := newTestGenerator(&fakeLLM{reply: `{"suggestions":["tomato","tomatillo","sun-dried tomato"]}`})
	assert.Equal(t, []string{"tomato", "tomatillo", "sun-dried tomato"}, g.SuggestIngredients(ctx, "tom"))

	g = newTestGenerator(&fakeLLM{reply: `["a","b","c","d","e","f","g","h","i","j","k","l"]`})
	assert.Len(t, g.SuggestIngredients(ctx, "x"), 10)

	g = newTestGenerator(&fakeLLM{err: errors.New("down")})
	out := g.SuggestIngredients(ctx, "x")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestGenerateVariations(t *testing.T) {
	ctx := context.Background()
	recipe := domain.Recipe{Title: "Soup", Ingredients: []domain.RecipeIngredient{{Name: "leek"}, {Name: "potato"}}}

	f := &fakeLLM{reply: `{"suggestions":[
		{"title":"A","description":"a","key_changes":"x"},
		{"title":"B","description":"b","key_changes":"y"},
		{"title":"C","description":"c","key_changes":"z"},
		{"title":"D","description":"d","key_changes":"w"}]}`}
	out := newTestGenerator(f).GenerateVariations(ctx, recipe)
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "x", out[0].KeyChanges)
	assert.Contains(t, f.reqs[0].Messages[0].Content, "leek, potato")

	out = newTestGenerator(&fakeLLM{reply: "nope"}).GenerateVariations(ctx, recipe)
	assert.Empty(t, out)
}

func TestImageForIsDeterministic(t *testing.T) {
	assert.Equal(t, DefaultImageURL, ImageFor(""))
	assert.Equal(t, recipeImages[2], ImageFor("Chicken Curry"))
	assert.Equal(t, recipeImages[0], ImageFor("Garlic Rice"))
	assert.Equal(t, ImageFor("Pad Thai"), ImageFor("Pad Thai"))
}
