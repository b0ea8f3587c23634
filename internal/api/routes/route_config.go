package routes

import (
	"recipe-ai-backend/internal/api/handlers"
	"recipe-ai-backend/internal/middleware"
	"recipe-ai-backend/internal/utils/metrics"
	"recipe-ai-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                    *fiber.App
	UserHandler            handlers.UserHandler
	RecipeHandler          handlers.RecipeHandler
	InteractionHandler     handlers.InteractionHandler
	PersonalizationHandler handlers.PersonalizationHandler
	IngredientHandler      handlers.IngredientHandler
	OpsHandler             handlers.OpsHandler
	Middleware             middleware.Middleware
	JWTService             jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipes()
	c.RecipeManagement()
	c.Personalization()
	c.Ingredients()
	c.Ops()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", c.OpsHandler.Ping)
	c.App.Get("/health", c.OpsHandler.Health)
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.JWTService))
	owner := c.Middleware.OwnerOnly()
	{
		user.Get("/profile/:id", owner, c.UserHandler.GetProfile)
		user.Put("/profile/:id", owner, c.UserHandler.UpdateProfile)
		user.Post("/profile/:id/photo", owner, c.UserHandler.UploadProfilePhoto)
		user.Get("/preferences/:id", owner, c.UserHandler.GetPreferences)
		user.Put("/preferences/:id", owner, c.UserHandler.UpdatePreferences)
		user.Get("/stats/:id", owner, c.UserHandler.GetStats)
		user.Delete("/account/:id", owner, c.UserHandler.DeleteAccount)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	recipes.Post("/generate", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GenerateRecipe)

	// static paths first so they are not captured by /:id
	recipes.Get("/search", c.RecipeHandler.SearchRecipes)
	recipes.Get("/popular", c.RecipeHandler.GetPopularRecipes)
	recipes.Get("/ingredients/suggestions", c.RecipeHandler.GetIngredientSuggestions)
	recipes.Get("/mine", auth, c.RecipeHandler.GetUserRecipes)

	recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetRecipe)
	recipes.Put("/:id", auth, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
}

func (c *Config) RecipeManagement() {
	management := c.App.Group("/api/v1/recipe-management", c.Middleware.AuthMiddleware(c.JWTService))
	{
		management.Post("/save", c.InteractionHandler.SaveRecipe)
		management.Post("/favorite", c.InteractionHandler.ToggleFavorite)
		management.Post("/rate", c.InteractionHandler.RateRecipe)
		management.Post("/share", c.InteractionHandler.ShareRecipe)
		management.Post("/collections", c.InteractionHandler.CreateCollection)
		management.Post("/track-view", c.InteractionHandler.TrackView)
		management.Get("/favorites", c.InteractionHandler.GetFavorites)
		management.Get("/history", c.InteractionHandler.GetHistory)
		management.Get("/stats", c.InteractionHandler.GetStats)
	}
}

func (c *Config) Personalization() {
	personalization := c.App.Group("/api/v1/personalization")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	{
		personalization.Post("/track-behavior", auth, c.PersonalizationHandler.TrackBehavior)
		personalization.Get("/recommendations", auth, c.PersonalizationHandler.GetRecommendations)
		personalization.Get("/recommendations/mood/:mood", auth, c.PersonalizationHandler.GetMoodRecommendations)
		personalization.Get("/trending", c.PersonalizationHandler.GetTrending)
	}
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients")
	{
		ingredients.Get("/search", c.IngredientHandler.Search)
		ingredients.Get("/categories", c.IngredientHandler.GetCategories)
		ingredients.Get("/popular", c.IngredientHandler.GetPopular)
		ingredients.Post("/pairings", c.IngredientHandler.GetPairings)
		ingredients.Post("/shopping-list", c.Middleware.AuthMiddleware(c.JWTService), c.IngredientHandler.CreateShoppingList)
	}
}

func (c *Config) Ops() {
	c.App.Get("/api/v1/cache/stats", c.Middleware.AuthMiddleware(c.JWTService), c.OpsHandler.CacheStats)
}
