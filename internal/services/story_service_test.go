package services

import (
	"context"
	"testing"
	"time"

	"github.com/novagram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storyWorld struct {
	users   *fakeUserRepo
	follows *fakeFollowRepo
	stories *fakeStoryRepo
	store   *fakeMediaStore
	svc     *StoryService
}

func newStoryWorld() *storyWorld {
	w := &storyWorld{
		users:   newFakeUserRepo(),
		follows: newFakeFollowRepo(),
		stories: newFakeStoryRepo(),
		store:   newFakeMediaStore(),
	}
	w.svc = NewStoryService(w.stories, w.follows, w.users, w.store, testLogger())
	return w
}

func (w *storyWorld) addUser(t *testing.T, name string) uint {
	t.Helper()
	u := &models.User{Username: name, DisplayName: name}
	require.NoError(t, w.users.CreateUser(u))
	return u.ID
}

func TestCreateStorySetsExpiry(t *testing.T) {
	w := newStoryWorld()
	bob := w.addUser(t, "bob")

	story, err := w.svc.CreateStory(context.Background(), bob, mediaURL("story/1/s1"), models.StoryTypeImage)
	require.NoError(t, err)

	assert.Equal(t, uid(bob), story.UserID)
	assert.WithinDuration(t, story.CreatedAt.Add(models.StoryTTL), story.ExpiresAt, time.Second)
	assert.Empty(t, story.Viewers)
}

func TestExpiredStoriesAreInvisibleAndPurgeable(t *testing.T) {
	w := newStoryWorld()
	ctx := context.Background()
	bob := w.addUser(t, "bob")

	fresh, err := w.svc.CreateStory(ctx, bob, mediaURL("story/1/fresh"), models.StoryTypeImage)
	require.NoError(t, err)

	stale := &models.Story{
		UserID:    uid(bob),
		Type:      models.StoryTypeImage,
		URL:       mediaURL("story/1/stale"),
		CreatedAt: time.Now().Add(-25 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, w.stories.CreateStory(ctx, stale))

	visible, err := w.svc.GetUserStories(ctx, bob)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, fresh.ID, visible[0].ID)

	purged, err := w.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = w.stories.GetStoryByID(ctx, stale.ID.Hex())
	assert.Error(t, err)
	_, err = w.stories.GetStoryByID(ctx, fresh.ID.Hex())
	assert.NoError(t, err)
}

func TestGetStoriesOfFollowing(t *testing.T) {
	w := newStoryWorld()
	ctx := context.Background()
	alice := w.addUser(t, "alice")
	bob := w.addUser(t, "bob")
	carol := w.addUser(t, "carol")
	require.NoError(t, w.follows.CreateFollow(&models.Follow{FollowerID: alice, FollowingID: bob}))

	followed, err := w.svc.CreateStory(ctx, bob, mediaURL("story/2/b"), models.StoryTypeImage)
	require.NoError(t, err)
	_, err = w.svc.CreateStory(ctx, carol, mediaURL("story/3/c"), models.StoryTypeVideo)
	require.NoError(t, err)

	stories, err := w.svc.GetStoriesOfFollowing(ctx, alice)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, followed.ID, stories[0].ID)
}

func TestMarkViewedCountsEachViewerOnce(t *testing.T) {
	w := newStoryWorld()
	ctx := context.Background()
	bob := w.addUser(t, "bob")
	alice := w.addUser(t, "alice")

	story, err := w.svc.CreateStory(ctx, bob, mediaURL("story/1/s"), models.StoryTypeImage)
	require.NoError(t, err)

	require.NoError(t, w.svc.MarkViewed(ctx, story.ID.Hex(), alice))
	require.NoError(t, w.svc.MarkViewed(ctx, story.ID.Hex(), alice))

	refreshed, err := w.stories.GetStoryByID(ctx, story.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{uid(alice)}, refreshed.Viewers)
}

func TestMarkViewedUnknownStory(t *testing.T) {
	w := newStoryWorld()

	err := w.svc.MarkViewed(context.Background(), "64f000000000000000000000", 1)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestDeleteStoryReleasesMedia(t *testing.T) {
	w := newStoryWorld()
	ctx := context.Background()
	bob := w.addUser(t, "bob")

	story, err := w.svc.CreateStory(ctx, bob, mediaURL("story/1/s"), models.StoryTypeImage)
	require.NoError(t, err)

	require.NoError(t, w.svc.DeleteStory(ctx, story.ID.Hex(), bob))
	assert.Equal(t, []string{"story/1/s"}, w.store.deleted)
	_, err = w.stories.GetStoryByID(ctx, story.ID.Hex())
	assert.Error(t, err)
}

func TestDeleteStoryOwnershipEnforced(t *testing.T) {
	w := newStoryWorld()
	ctx := context.Background()
	bob := w.addUser(t, "bob")
	alice := w.addUser(t, "alice")

	story, err := w.svc.CreateStory(ctx, bob, mediaURL("story/1/s"), models.StoryTypeImage)
	require.NoError(t, err)

	err = w.svc.DeleteStory(ctx, story.ID.Hex(), alice)
	assert.ErrorIs(t, err, ErrStoryNotFound)
	_, err = w.stories.GetStoryByID(ctx, story.ID.Hex())
	assert.NoError(t, err, "story survives a non-owner delete attempt")
}

func TestGetUserStoriesUnknownUser(t *testing.T) {
	w := newStoryWorld()

	_, err := w.svc.GetUserStories(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
