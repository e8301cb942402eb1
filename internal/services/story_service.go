package services

import (
	"context"

	"github.com/novagram/backend/internal/media"
	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// StoryService owns the time-bounded story lifecycle: creation with a 24h
// expiry, expiry-filtered reads, the per-viewer view set, and physical
// cleanup of expired stories.
type StoryService struct {
	storyRepo  repositories.StoryRepository
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
	mediaStore media.Store
	log        *logrus.Logger
}

// NewStoryService creates a StoryService
func NewStoryService(
	storyRepo repositories.StoryRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	mediaStore media.Store,
	log *logrus.Logger,
) *StoryService {
	return &StoryService{
		storyRepo:  storyRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		mediaStore: mediaStore,
		log:        log,
	}
}

// CreateStory stores a story expiring 24h from now
func (s *StoryService) CreateStory(ctx context.Context, userID uint, mediaURL, mediaType string) (*models.Story, error) {
	story := &models.Story{
		UserID: uid(userID),
		Type:   mediaType,
		URL:    mediaURL,
	}
	if err := s.storyRepo.CreateStory(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// GetUserStories returns a user's unexpired stories
func (s *StoryService) GetUserStories(ctx context.Context, userID uint) ([]models.Story, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.storyRepo.GetActiveByUserIDs(ctx, []string{uid(userID)})
}

// GetStoriesOfFollowing returns the unexpired stories of everyone the
// requester follows
func (s *StoryService) GetStoriesOfFollowing(ctx context.Context, userID uint) ([]models.Story, error) {
	followingIDs, err := s.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]string, 0, len(followingIDs))
	for _, id := range followingIDs {
		authorIDs = append(authorIDs, uid(id))
	}
	return s.storyRepo.GetActiveByUserIDs(ctx, authorIDs)
}

// MarkViewed records the viewer on the story; each viewer counts once
func (s *StoryService) MarkViewed(ctx context.Context, storyID string, viewerID uint) error {
	if _, err := s.storyRepo.GetStoryByID(ctx, storyID); err != nil {
		return ErrStoryNotFound
	}
	return s.storyRepo.AddViewer(ctx, storyID, uid(viewerID))
}

// DeleteStory removes a story owned by the caller, releasing its media
// asset best-effort first.
func (s *StoryService) DeleteStory(ctx context.Context, storyID string, ownerID uint) error {
	story, err := s.storyRepo.GetStoryByID(ctx, storyID)
	if err != nil {
		return ErrStoryNotFound
	}
	if story.UserID != uid(ownerID) {
		return ErrStoryNotFound
	}

	if assetID := media.DeriveAssetID(story.URL); assetID != "" {
		if err := s.mediaStore.Delete(ctx, assetID, story.Type); err != nil {
			s.log.WithError(err).WithField("story", storyID).Warn("story media release failed")
		}
	}

	return s.storyRepo.DeleteStory(ctx, storyID)
}

// PurgeExpired physically deletes stories past their expiry and returns how
// many were removed
func (s *StoryService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.storyRepo.DeleteExpiredStories(ctx)
}
