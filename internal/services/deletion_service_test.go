package services

import (
	"context"
	"testing"

	"github.com/novagram/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deletionWorld struct {
	users         *fakeUserRepo
	follows       *fakeFollowRepo
	likes         *fakeLikeRepo
	comments      *fakeCommentRepo
	commentLikes  *fakeCommentLikeRepo
	posts         *fakePostRepo
	stories       *fakeStoryRepo
	notifications *fakeNotificationRepo
	store         *fakeMediaStore
}

func newDeletionWorld() *deletionWorld {
	w := &deletionWorld{
		users:         newFakeUserRepo(),
		follows:       newFakeFollowRepo(),
		likes:         newFakeLikeRepo(),
		comments:      newFakeCommentRepo(),
		posts:         newFakePostRepo(),
		stories:       newFakeStoryRepo(),
		notifications: newFakeNotificationRepo(),
		store:         newFakeMediaStore(),
	}
	w.commentLikes = newFakeCommentLikeRepo(w.comments)
	return w
}

func (w *deletionWorld) service(policy ReplyPolicy) *DeletionService {
	return NewDeletionService(
		w.posts, w.comments, w.likes, w.commentLikes, w.stories,
		w.notifications, w.follows, w.users, w.store, policy, testLogger(),
	)
}

func mediaURL(assetID string) string {
	return "https://storage.googleapis.com/novagram-media/upload/" + assetID
}

func TestDeletePostCascades(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)
	ctx := context.Background()

	owner := &models.User{Username: "bob", PostsCount: 3}
	require.NoError(t, w.users.CreateUser(owner))

	post := &models.Post{
		UserID:    uid(owner.ID),
		Content:   "beach day",
		ImageURLs: []string{mediaURL("publication/1/img-a"), mediaURL("publication/1/img-b")},
		VideoURLs: []string{mediaURL("publication/1/vid-a")},
	}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	postID := post.ID.Hex()

	comment := &models.Comment{PostID: postID, UserID: 7, Content: "nice"}
	require.NoError(t, w.comments.CreateComment(comment))
	_, err := w.likes.Toggle(postID, 7)
	require.NoError(t, err)
	_, err = w.commentLikes.Toggle(comment.ID, 8)
	require.NoError(t, err)
	require.NoError(t, w.notifications.CreateNotification(&models.Notification{
		Type: models.NotificationLike, ActorID: 7, RecipientID: owner.ID, PostID: postID,
	}))

	released, failed, err := svc.DeletePost(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 3, released)
	assert.Equal(t, 0, failed)

	_, err = w.posts.GetPostByID(ctx, postID)
	assert.Error(t, err)

	comments, _, err := w.comments.GetCommentsByPostID(postID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, comments)

	likers, err := w.likes.GetLikerIDs(postID)
	require.NoError(t, err)
	assert.Empty(t, likers)

	commentLikes, err := w.commentLikes.GetLikesCount(comment.ID)
	require.NoError(t, err)
	assert.Zero(t, commentLikes)

	remaining, _, err := w.notifications.GetByRecipientID(owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.Equal(t, 2, owner.PostsCount)
	assert.ElementsMatch(t,
		[]string{"publication/1/img-a", "publication/1/img-b", "publication/1/vid-a"},
		w.store.deleted)
}

func TestDeletePostMediaFailureDoesNotAbort(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)
	ctx := context.Background()

	owner := &models.User{Username: "bob", PostsCount: 1}
	require.NoError(t, w.users.CreateUser(owner))

	post := &models.Post{
		UserID:    uid(owner.ID),
		ImageURLs: []string{mediaURL("publication/1/ok"), mediaURL("publication/1/broken")},
	}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	w.store.failOn["publication/1/broken"] = true

	released, failed, err := svc.DeletePost(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, failed)

	_, err = w.posts.GetPostByID(ctx, post.ID.Hex())
	assert.Error(t, err, "post must be removed even when an asset delete fails")
}

func TestDeletePostUnknown(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)

	_, _, err := svc.DeletePost(context.Background(), "64f000000000000000000000")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeleteUserFullCascade(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)
	ctx := context.Background()

	victim := &models.User{Username: "mallory", PostsCount: 2}
	require.NoError(t, w.users.CreateUser(victim))
	friend := &models.User{Username: "alice", FollowersCount: 1, FollowingCount: 1}
	require.NoError(t, w.users.CreateUser(friend))

	// mutual follow
	require.NoError(t, w.follows.CreateFollow(&models.Follow{FollowerID: victim.ID, FollowingID: friend.ID}))
	require.NoError(t, w.follows.CreateFollow(&models.Follow{FollowerID: friend.ID, FollowingID: victim.ID}))

	// two posts with media
	for _, asset := range []string{"publication/1/a", "publication/1/b"} {
		post := &models.Post{UserID: uid(victim.ID), Content: "post", ImageURLs: []string{mediaURL(asset)}}
		require.NoError(t, w.posts.CreatePost(ctx, post))
	}

	// a story with media
	require.NoError(t, w.stories.CreateStory(ctx, &models.Story{
		UserID: uid(victim.ID), Type: "image", URL: mediaURL("story/1/s"),
	}))

	// a comment authored on someone else's post
	otherPost := &models.Post{UserID: uid(friend.ID), Content: "theirs"}
	require.NoError(t, w.posts.CreatePost(ctx, otherPost))
	require.NoError(t, w.comments.CreateComment(&models.Comment{
		PostID: otherPost.ID.Hex(), UserID: victim.ID, Content: "mine on theirs",
	}))

	// a like and notifications in both directions
	_, err := w.likes.Toggle(otherPost.ID.Hex(), victim.ID)
	require.NoError(t, err)
	require.NoError(t, w.notifications.CreateNotification(&models.Notification{
		Type: models.NotificationFollow, ActorID: victim.ID, RecipientID: friend.ID,
	}))
	require.NoError(t, w.notifications.CreateNotification(&models.Notification{
		Type: models.NotificationFollow, ActorID: friend.ID, RecipientID: victim.ID,
	}))

	report, err := svc.DeleteUser(ctx, victim.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.PostsDeleted)
	assert.Equal(t, 1, report.StoriesDeleted)
	assert.Equal(t, 3, report.MediaReleased)
	assert.Equal(t, 0, report.MediaFailed)
	assert.True(t, report.CommentsPurged)
	assert.True(t, report.GraphDetached)
	assert.True(t, report.NotificationsPurged)
	assert.True(t, report.UserDeleted)

	_, err = w.users.GetUserByID(victim.ID)
	assert.Error(t, err)

	// friend's counters reflect both lost edges
	assert.Equal(t, 0, friend.FollowersCount)
	assert.Equal(t, 0, friend.FollowingCount)

	comments, _, err := w.comments.GetCommentsByPostID(otherPost.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, comments)

	liked, err := w.likes.HasUserLikedPost(otherPost.ID.Hex(), victim.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	assert.Empty(t, w.notifications.notifications)

	// nothing of the victim's remains
	n, err := w.posts.CountByUserID(ctx, uid(victim.ID))
	require.NoError(t, err)
	assert.Zero(t, n)
	stories, err := w.stories.GetAllByUserID(ctx, uid(victim.ID))
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestDeleteUserUnknown(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)

	report, err := svc.DeleteUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NotNil(t, report)
	assert.False(t, report.UserDeleted)
}

func TestDeleteUserSurvivesMediaOutage(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)
	ctx := context.Background()

	victim := &models.User{Username: "mallory", PostsCount: 1}
	require.NoError(t, w.users.CreateUser(victim))
	post := &models.Post{UserID: uid(victim.ID), ImageURLs: []string{mediaURL("publication/1/gone")}}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	w.store.failOn["publication/1/gone"] = true

	report, err := svc.DeleteUser(ctx, victim.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MediaFailed)
	assert.True(t, report.UserDeleted)
}

func commentTree(t *testing.T, w *deletionWorld, postID string) (root, child, grandchild uint) {
	t.Helper()
	rootC := &models.Comment{PostID: postID, UserID: 1, Content: "root"}
	require.NoError(t, w.comments.CreateComment(rootC))
	childC := &models.Comment{PostID: postID, UserID: 2, ParentID: &rootC.ID, Content: "child"}
	require.NoError(t, w.comments.CreateComment(childC))
	grandC := &models.Comment{PostID: postID, UserID: 3, ParentID: &childC.ID, Content: "grandchild"}
	require.NoError(t, w.comments.CreateComment(grandC))
	return rootC.ID, childC.ID, grandC.ID
}

func TestDeleteCommentOrphanPolicy(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)
	ctx := context.Background()

	post := &models.Post{UserID: "1", CommentsCount: 3}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	root, child, _ := commentTree(t, w, post.ID.Hex())

	require.NoError(t, svc.DeleteComment(ctx, root))

	_, err := w.comments.GetCommentByID(root)
	assert.Error(t, err)
	kept, err := w.comments.GetCommentByID(child)
	require.NoError(t, err)
	require.NotNil(t, kept.ParentID)
	assert.Equal(t, root, *kept.ParentID, "orphaned reply keeps its dangling parent pointer")

	refreshed, err := w.posts.GetPostByID(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.CommentsCount)
}

func TestDeleteCommentCascadePolicy(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyCascade)
	ctx := context.Background()

	post := &models.Post{UserID: "1", CommentsCount: 3}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	root, child, grandchild := commentTree(t, w, post.ID.Hex())
	_, err := w.commentLikes.Toggle(child, 9)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, root))

	for _, id := range []uint{root, child, grandchild} {
		_, err := w.comments.GetCommentByID(id)
		assert.Error(t, err, "comment %d should be gone", id)
	}

	childLikes, err := w.commentLikes.GetLikesCount(child)
	require.NoError(t, err)
	assert.Zero(t, childLikes, "likes on a cascaded reply must not linger")

	refreshed, err := w.posts.GetPostByID(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.CommentsCount)
}

func TestDeleteCommentReparentPolicy(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyReparent)
	ctx := context.Background()

	post := &models.Post{UserID: "1", CommentsCount: 3}
	require.NoError(t, w.posts.CreatePost(ctx, post))
	root, child, grandchild := commentTree(t, w, post.ID.Hex())

	// deleting the middle comment promotes its reply to the root
	require.NoError(t, svc.DeleteComment(ctx, child))

	promoted, err := w.comments.GetCommentByID(grandchild)
	require.NoError(t, err)
	require.NotNil(t, promoted.ParentID)
	assert.Equal(t, root, *promoted.ParentID)
}

func TestDeleteCommentUnknown(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)

	err := svc.DeleteComment(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteUserWithNothingToDelete(t *testing.T) {
	w := newDeletionWorld()
	svc := w.service(ReplyOrphan)

	loner := &models.User{Username: "loner"}
	require.NoError(t, w.users.CreateUser(loner))

	report, err := svc.DeleteUser(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.Zero(t, report.PostsDeleted)
	assert.True(t, report.UserDeleted)
}
