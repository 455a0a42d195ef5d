package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/config"
	"peysphotos/api/internal/jobs"
	"peysphotos/api/internal/middleware"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/service"
	"peysphotos/api/internal/storage"
)

type HandlerSet struct {
	log zerolog.Logger
	cfg *config.AppConfig

	authService     *service.AuthService
	uploadService   *service.UploadService
	feedService     *service.FeedService
	mediaService    *service.MediaService
	categoryService *service.CategoryService

	db        *gorm.DB
	cache     *redis.Client
	store     *storage.ObjectStore
	scheduler *jobs.Scheduler

	users    *repository.UserRepository
	sessions *repository.SessionRepository
}

func NewHandlerSet(
	log zerolog.Logger,
	db *gorm.DB,
	cacheClient *redis.Client,
	store *storage.ObjectStore,
	scheduler *jobs.Scheduler,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	feedCache := cache.NewFeedCache(cacheClient)

	return HandlerSet{
		log:             log,
		cfg:             cfg,
		authService:     service.NewAuthService(userRepo, sessionRepo, cfg, log),
		uploadService:   service.NewUploadService(mediaRepo, categoryRepo, store, feedCache, cfg, log),
		feedService:     service.NewFeedService(mediaRepo, categoryRepo, store, feedCache, cfg, log),
		mediaService:    service.NewMediaService(mediaRepo, store, feedCache, log),
		categoryService: service.NewCategoryService(categoryRepo, store, feedCache, cfg, log),
		db:              db,
		cache:           cacheClient,
		store:           store,
		scheduler:       scheduler,
		users:           userRepo,
		sessions:        sessionRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", middleware.Auth(h.cfg, h.users, h.sessions), h.Logout)

	categories := v1.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:key", h.CategoryDetail)

	v1.GET("/media", h.ListMedia)

	admin := v1.Group("/admin")
	admin.Use(
		middleware.Auth(h.cfg, h.users, h.sessions),
		middleware.RequireRoles(models.UserRoleAdmin),
	)

	admin.POST("/categories", h.CreateCategory)
	admin.PATCH("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	// Images may arrive over the stored-size ceiling; compression runs before
	// that check, so the raw body limit here is the larger video ceiling.
	admin.POST("/media/upload",
		middleware.MaxBodyBytes(h.cfg.Upload.MaxVideoBytes),
		h.UploadImage)
	admin.POST("/media/upload/video",
		middleware.MaxBodyBytes(h.cfg.Upload.MaxVideoBytes+(1<<20)),
		middleware.RequestTimeout(h.cfg.HTTP.VideoUploadTimeout),
		h.UploadVideo)
	admin.PATCH("/media/:id", h.EditMedia)
	admin.PUT("/media/reorder", h.ReorderMedia)
	admin.DELETE("/media/:id", h.DeleteMedia)

	admin.POST("/reconcile", h.TriggerReconcile)
}
