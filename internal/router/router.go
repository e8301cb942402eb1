package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/novagram/backend/internal/handlers"
	"github.com/novagram/backend/internal/media"
	"github.com/novagram/backend/internal/middleware"
	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/novagram/backend/internal/services"
	"github.com/novagram/backend/pkg/config"
	"github.com/novagram/backend/pkg/firebase"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, fbApp *firebase.App, cfg *config.Config, logger *logrus.Logger) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
		&models.Admin{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	mongoDB := mgClient.Database("novagram")

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	adminRepo := repositories.NewPostgresAdminRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	storyRepo := repositories.NewMongoStoryRepository(mongoDB)
	reportRepo := repositories.NewMongoReportRepository(mongoDB)
	auditRepo := repositories.NewMongoAuditRepository(mongoDB)

	// --- Media store and push sink ---
	mediaStore := media.NewGCSStore(fbApp.Bucket, fbApp.BucketName, logger)
	pushSender := firebase.NewFCMPushSender(fbApp.Messaging)

	// --- Services ---
	notifier := services.NewNotifierService(notificationRepo, followRepo, userRepo, pushSender, logger)
	feedService := services.NewFeedService(postRepo, userRepo, followRepo)
	deletionService := services.NewDeletionService(
		postRepo, commentRepo, likeRepo, commentLikeRepo, storyRepo, notificationRepo,
		followRepo, userRepo, mediaStore, services.ReplyPolicy(cfg.ReplyDeletionPolicy), logger,
	)
	moderationService := services.NewModerationService(reportRepo, auditRepo, postRepo, commentRepo, logger)
	engagementService := services.NewEngagementService(likeRepo, postRepo, commentRepo, commentLikeRepo, notifier, logger)
	storyService := services.NewStoryService(storyRepo, followRepo, userRepo, mediaStore, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, adminRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier, logger)
	followHandler.RegisterFollowRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, engagementService, deletionService, notifier, logger)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService, userRepo, likeRepo)
	feedHandler.RegisterFeedRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, engagementService, deletionService)
	commentHandler.RegisterCommentRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyService)
	storyHandler.RegisterStoryRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	mediaHandler := handlers.NewMediaHandler(mediaStore)
	mediaHandler.RegisterMediaRoutes(api)

	reportHandler := handlers.NewReportHandler(moderationService)
	reportHandler.RegisterReportRoutes(api)
	log.Println("User-facing routes configured.")

	// --- Admin console (separate JWT, per-group permission flags) ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))

	adminHandler := handlers.NewAdminHandler(userRepo, moderationService, deletionService, notifier, storyService, logger)
	adminHandler.RegisterUserRoutes(admin.Group("", middleware.RequirePermission(adminRepo, "manage_users")))
	adminHandler.RegisterContentRoutes(admin.Group("", middleware.RequirePermission(adminRepo, "manage_content")))
	adminHandler.RegisterAnalyticsRoutes(admin.Group("", middleware.RequirePermission(adminRepo, "view_analytics")))
	adminHandler.RegisterSystemRoutes(admin.Group("", middleware.RequirePermission(adminRepo, "manage_system")))
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
