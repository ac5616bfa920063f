package router

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Dependencies are the long-lived resources the HTTP layer is built on.
// Redis is optional.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.Storage
}

// SetupRouter builds the services and handlers and mounts every route.
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	cfg, logger := deps.Config, deps.Logger
	api.RegisterValidators()

	conn := service.NewConnectionService(deps.DB, logger)
	images := service.NewImageService(deps.Storage, logger)
	authService := service.NewAuthService(deps.DB, deps.Redis, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(deps.DB, authService, images, conn, logger)
	recipeService := service.NewRecipeService(deps.DB, images, conn, logger)
	tagService := service.NewTagService(deps.DB)
	ingredientService, err := service.NewIngredientService(deps.DB, cfg.IngredientCacheSize, cfg.IngredientCacheTTL, logger)
	if err != nil {
		return nil, err
	}

	paginator := api.Paginator{DefaultLimit: cfg.PageSize, MaxLimit: cfg.MaxPageSize}
	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, images, paginator)
	recipeHandler := api.NewRecipeHandler(recipeService, images, paginator)
	referenceHandler := api.NewReferenceHandler(ingredientService, tagService)

	var createLimit gin.HandlerFunc
	if deps.Redis != nil && cfg.RecipeCreateLimit > 0 {
		createLimit = middleware.NewRecipeCreateRateLimiter(deps.Redis, cfg.RecipeCreateLimit, cfg.RecipeCreateWindow, logger).Middleware()
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.Metrics(),
		middleware.RequestLogger(logger.Named("http")),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.ErrorHandler(logger),
	)
	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(types.ErrNotFound)
	})

	deps.mountOps(router)
	if err := deps.mountMedia(router); err != nil {
		return nil, err
	}

	requireAuth := middleware.RequireAuth()
	v1 := router.Group("/api")
	v1.Use(middleware.Authenticate(authService))
	authHandler.RegisterRoutes(v1, requireAuth)
	userHandler.RegisterRoutes(v1, requireAuth)
	recipeHandler.RegisterRoutes(v1, requireAuth, createLimit)
	referenceHandler.RegisterRoutes(v1)

	router.GET("/s/:code/", api.RedirectShortLink)

	return router, nil
}

func (deps Dependencies) mountOps(router *gin.Engine) {
	checks := map[string]api.Pinger{
		"database": func(ctx context.Context) error {
			return database.HealthCheck(ctx, deps.DB)
		},
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}
	router.GET("/health", api.HealthCheck(deps.Logger, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// mountMedia serves local uploads under the path of MEDIA_URL. Remote
// backends serve their own objects.
func (deps Dependencies) mountMedia(router *gin.Engine) error {
	local, ok := deps.Storage.(*storage.LocalStorage)
	if !ok {
		return nil
	}
	u, err := url.Parse(deps.Config.MediaURL)
	if err != nil {
		return fmt.Errorf("invalid MEDIA_URL: %w", err)
	}
	prefix := strings.TrimRight(u.Path, "/")
	if prefix == "" {
		return fmt.Errorf("MEDIA_URL %q must have a path", deps.Config.MediaURL)
	}
	router.Static(prefix, local.Root())
	return nil
}
