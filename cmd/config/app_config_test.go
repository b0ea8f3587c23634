package config

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/jwt"
	"recipe-ai-backend/pkg/llm"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeReply = `{"title":"Garlic Rice","description":"Fragrant garlic rice","ingredients":["rice","garlic"],"instructions":["Cook the rice","Fry the garlic"],"cuisine":"asian","difficulty":"easy","tags":["quick"]}`

type cannedLLM struct{}

func (cannedLLM) Chat(context.Context, llm.ChatRequest) (string, error)     { return recipeReply, nil }
func (cannedLLM) ChatJSON(context.Context, llm.ChatRequest) (string, error) { return recipeReply, nil }

type nopStorage struct{}

func (nopStorage) UploadFile(name string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	return folder + "/" + name, nil
}
func (nopStorage) UpdateFile(key string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return key, nil
}
func (nopStorage) PutObject(_ context.Context, key, _ string, _ []byte) (string, error) {
	return key, nil
}
func (nopStorage) DeleteFile(string) error            { return nil }
func (nopStorage) GetObjectKeyFromLink(string) string { return "" }
func (nopStorage) GetPublicLinkKey(key string) string { return "https://cdn.test/" + key }

type nopMailer struct{}

func (nopMailer) Send(string, string, string) error { return nil }

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, err := NewApp(Dependencies{
		Store:     docstore.NewMemoryStore(),
		Cache:     cache.NewMemory(cache.MemoryConfig{}),
		LLM:       cannedLLM{},
		Storage:   nopStorage{},
		Mailer:    nopMailer{},
		JWT:       jwt.NewJWTServiceWithSecret("test-secret"),
		Log:       logger.NewNop(),
		AccessLog: io.Discard,
		AppURL:    "https://recipes.test",
	})
	require.NoError(t, err)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App, email string) (token, userID string) {
	t.Helper()
	code, env := do(t, app, fiber.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email":        email,
		"password":     "s3cret-pass",
		"display_name": "Chef",
	}, "")
	require.Equal(t, fiber.StatusCreated, code, env.Error)

	var sess struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	return sess.AccessToken, sess.User.ID
}

func TestOpsRoutes(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/ping", "/health", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	code, _ := do(t, app, fiber.MethodGet, "/api/v1/cache/stats", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	token, _ := register(t, app, "ops@example.com")
	code, env := do(t, app, fiber.MethodGet, "/api/v1/cache/stats", nil, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"backend":"memory"`)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	token, userID := register(t, app, "chef@example.com")

	code, _ := do(t, app, fiber.MethodPost, "/api/v1/auth/register", fiber.Map{"email": "not-an-email", "password": "x"}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email": "chef@example.com", "password": "s3cret-pass", "display_name": "Again",
	}, "")
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "chef@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "chef@example.com", "password": "s3cret-pass"}, "")
	assert.Equal(t, fiber.StatusOK, code)

	code, env := do(t, app, fiber.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), userID)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/users/profile/"+userID, nil, token)
	assert.Equal(t, fiber.StatusOK, code)

	code, env = do(t, app, fiber.MethodGet, "/api/v1/users/profile/someone-else", nil, token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "access denied", env.Error)
}

func TestRecipeLifecycle(t *testing.T) {
	app := newTestApp(t)
	token, userID := register(t, app, "chef@example.com")

	code, env := do(t, app, fiber.MethodPost, "/api/v1/recipes/generate", fiber.Map{
		"ingredients": []string{"rice", "garlic"},
		"is_public":   true,
	}, token)
	require.Equal(t, fiber.StatusCreated, code, env.Error)

	var generated struct {
		Recipe struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			UserID string `json:"user_id"`
		} `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	assert.Equal(t, "Garlic Rice", generated.Recipe.Title)
	assert.Equal(t, userID, generated.Recipe.UserID)
	recipeID := generated.Recipe.ID

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/recipes/"+recipeID, nil, "")
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/recipes/does-not-exist", nil, "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = do(t, app, fiber.MethodGet, "/api/v1/personalization/trending?time_period=day", nil, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), recipeID)
	assert.Contains(t, string(env.Data), `"time_period":"day"`)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/recipe-management/rate", fiber.Map{"recipe_id": recipeID, "rating": 6}, token)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/recipe-management/favorite", fiber.Map{"recipe_id": recipeID}, token)
	assert.Equal(t, fiber.StatusOK, code)

	code, env = do(t, app, fiber.MethodGet, "/api/v1/recipe-management/favorites", nil, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), recipeID)

	code, env = do(t, app, fiber.MethodPost, "/api/v1/recipe-management/share", fiber.Map{"recipe_id": recipeID, "share_method": "link"}, token)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Contains(t, string(env.Data), "https://recipes.test/shared/")

	code, env = do(t, app, fiber.MethodPost, "/api/v1/ingredients/shopping-list", fiber.Map{"name": "Week", "recipe_ids": []string{recipeID}}, token)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Contains(t, string(env.Data), `"name":"garlic"`)

	// another user cannot edit it
	other, _ := register(t, app, "other@example.com")
	code, _ = do(t, app, fiber.MethodDelete, "/api/v1/recipes/"+recipeID, nil, other)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = do(t, app, fiber.MethodDelete, "/api/v1/recipes/"+recipeID, nil, token)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestPrivateRecipeAccess(t *testing.T) {
	app := newTestApp(t)
	owner, _ := register(t, app, "owner@example.com")
	other, _ := register(t, app, "other@example.com")

	code, env := do(t, app, fiber.MethodPost, "/api/v1/recipes/generate", fiber.Map{"ingredients": []string{"rice"}}, owner)
	require.Equal(t, fiber.StatusCreated, code, env.Error)
	var generated struct {
		Recipe struct {
			ID       string `json:"id"`
			IsPublic bool   `json:"is_public"`
		} `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	require.False(t, generated.Recipe.IsPublic)
	recipeID := generated.Recipe.ID

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/recipes/"+recipeID, nil, owner)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/recipes/"+recipeID, nil, "")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/recipes/"+recipeID, nil, other)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/recipe-management/favorite", fiber.Map{"recipe_id": recipeID}, other)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestPersonalizationRoutes(t *testing.T) {
	app := newTestApp(t)
	token, _ := register(t, app, "chef@example.com")

	code, _ := do(t, app, fiber.MethodPost, "/api/v1/personalization/track-behavior", fiber.Map{"event_type": "clicked"}, token)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env := do(t, app, fiber.MethodPost, "/api/v1/personalization/track-behavior", fiber.Map{
		"event_type": "viewed",
		"event_data": fiber.Map{"recipe_id": "r1"},
	}, token)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Contains(t, string(env.Data), `"device_type":"web"`)

	code, env = do(t, app, fiber.MethodGet, "/api/v1/personalization/recommendations", nil, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":0`)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/personalization/recommendations/mood/grumpy", nil, token)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/personalization/recommendations", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestIngredientRoutes(t *testing.T) {
	app := newTestApp(t)

	code, env := do(t, app, fiber.MethodGet, "/api/v1/ingredients/search?q=gar", nil, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"garlic"`)

	code, _ = do(t, app, fiber.MethodGet, "/api/v1/ingredients/categories", nil, "")
	assert.Equal(t, fiber.StatusOK, code)

	code, env = do(t, app, fiber.MethodPost, "/api/v1/ingredients/pairings", fiber.Map{"ingredients": []string{"fish"}}, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"lemon"`)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/ingredients/pairings", fiber.Map{"ingredients": []string{}}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}
