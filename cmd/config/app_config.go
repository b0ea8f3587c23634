package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"recipe-ai-backend/internal/api/handlers"
	"recipe-ai-backend/internal/api/routes"
	"recipe-ai-backend/internal/middleware"
	"recipe-ai-backend/internal/utils"
	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/mailing"
	"recipe-ai-backend/internal/utils/storage"
	"recipe-ai-backend/pkg/cache"
	"recipe-ai-backend/pkg/docstore"
	"recipe-ai-backend/pkg/ingredient"
	"recipe-ai-backend/pkg/interaction"
	"recipe-ai-backend/pkg/jwt"
	"recipe-ai-backend/pkg/llm"
	"recipe-ai-backend/pkg/personalization"
	"recipe-ai-backend/pkg/recipe"
	"recipe-ai-backend/pkg/user"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const Version = "1.0.0"

// Dependencies are the outside-world collaborators of the app. main builds
// them from config; tests substitute in-memory ones.
type Dependencies struct {
	Store     docstore.Store
	Cache     cache.Cache
	LLM       llm.Client
	Storage   storage.AwsS3
	Mailer    mailing.Mailer
	JWT       jwt.JWTService
	Log       *logger.Logger
	AccessLog io.Writer
	AppURL    string
	RateLimit int
}

func NewApp(deps Dependencies) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		AppName:           "Recipe AI " + Version,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     deps.AccessLog,
	}))
	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	recipeRepository := recipe.NewRecipeRepository(deps.Store)
	userRepository := user.NewUserRepository(deps.Store)
	behaviorRepository := personalization.NewBehaviorRepository(deps.Store)
	interactionRepository := interaction.NewInteractionRepository(deps.Store)
	shoppingListRepository := ingredient.NewShoppingListRepository(deps.Store)

	// Service
	generator := recipe.NewGenerator(deps.LLM, deps.Log)
	userService := user.NewUserService(userRepository, deps.JWT, deps.Storage, deps.Cache, deps.Log)
	personalizationService := personalization.NewPersonalizationService(behaviorRepository, recipeRepository, userService, deps.Cache, deps.Log)
	recipeService := recipe.NewRecipeService(recipeRepository, generator, deps.Cache, personalizationService, deps.Log)
	interactionService := interaction.NewInteractionService(
		interactionRepository,
		recipeRepository,
		personalizationService,
		deps.Mailer,
		deps.Storage,
		deps.AppURL,
		deps.Log,
	)
	ingredientService := ingredient.NewIngredientService(recipeRepository, shoppingListRepository, generator, deps.Cache, deps.Log)

	// Handler
	userHandler := handlers.NewUserHandler(userService, interactionService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	interactionHandler := handlers.NewInteractionHandler(interactionService, validator)
	personalizationHandler := handlers.NewPersonalizationHandler(personalizationService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	opsHandler := handlers.NewOpsHandler(deps.Cache, Version)

	// routes
	routesConfig := routes.Config{
		App:                    app,
		UserHandler:            userHandler,
		RecipeHandler:          recipeHandler,
		InteractionHandler:     interactionHandler,
		PersonalizationHandler: personalizationHandler,
		IngredientHandler:      ingredientHandler,
		OpsHandler:             opsHandler,
		Middleware:             middlewares,
		JWTService:             deps.JWT,
	}
	routesConfig.Setup()
	return app, nil
}

// NewDependencies wires the production collaborators from config.
func NewDependencies(log *logger.Logger) (Dependencies, error) {
	store, err := NewDocumentStore(log)
	if err != nil {
		return Dependencies{}, err
	}

	c, err := NewCache(log)
	if err != nil {
		return Dependencies{}, err
	}

	accessLog, err := openAccessLog(utils.GetConfig("LOG_FILE"))
	if err != nil {
		return Dependencies{}, err
	}

	if utils.GetConfig("JWT_SECRET") == "" {
		return Dependencies{}, fmt.Errorf("JWT_SECRET is not set")
	}

	return Dependencies{
		Store:     store,
		Cache:     c,
		LLM:       llm.NewClient(llm.LoadConfig(), log),
		Storage:   storage.NewAwsS3(),
		Mailer:    mailing.NewMailer(mailing.LoadMailConfig()),
		JWT:       jwt.NewJWTService(),
		Log:       log,
		AccessLog: accessLog,
		AppURL:    utils.GetConfig("APP_URL"),
		RateLimit: utils.GetConfigInt("RATE_LIMIT_MAX"),
	}, nil
}

func NewCache(log *logger.Logger) (cache.Cache, error) {
	ttl := time.Duration(utils.GetConfigInt("CACHE_TTL")) * time.Second

	if strings.EqualFold(utils.GetConfig("CACHE_BACKEND"), "redis") {
		rdb, err := cache.NewRedisClient(utils.GetConfig("REDIS_ADDR"))
		if err != nil {
			return nil, err
		}
		log.Info("using redis cache", "addr", utils.GetConfig("REDIS_ADDR"))
		return cache.NewRedis(rdb, log, ttl), nil
	}

	return cache.NewMemory(cache.MemoryConfig{
		DefaultTTL: ttl,
		MaxItems:   utils.GetConfigInt("CACHE_MAX_ITEMS"),
	}), nil
}

func openAccessLog(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	return file, nil
}
