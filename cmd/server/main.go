package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/novagram/backend/internal/router"
	"github.com/novagram/backend/pkg/config"
	"github.com/novagram/backend/pkg/firebase"
	"github.com/novagram/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	if cfg.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize database connections
	db, err := config.InitDB(logger)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase (storage bucket + FCM)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket, logger)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp, cfg, logger)

	// Validator
	e.Validator = validators.NewValidator()

	// Periodic expired-story cleanup
	if interval, err := time.ParseDuration(cfg.StoryPurgeInterval); err == nil && interval > 0 {
		go router.RunStoryPurge(ctx, db.Mongo, interval, logger)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
