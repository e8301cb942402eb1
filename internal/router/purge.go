package router

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/novagram/backend/internal/repositories"
)

// RunStoryPurge deletes expired stories on a fixed interval until the
// context is cancelled
func RunStoryPurge(ctx context.Context, mgClient *mongo.Client, interval time.Duration, logger *logrus.Logger) {
	storyRepo := repositories.NewMongoStoryRepository(mgClient.Database("novagram"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := storyRepo.DeleteExpiredStories(ctx)
			if err != nil {
				logger.WithError(err).Warn("expired story purge failed")
				continue
			}
			if purged > 0 {
				logger.WithField("purged", purged).Info("expired stories removed")
			}
		}
	}
}
