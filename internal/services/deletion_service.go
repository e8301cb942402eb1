package services

import (
	"context"
	"strconv"

	"github.com/novagram/backend/internal/media"
	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// ReplyPolicy controls what happens to the replies of a deleted comment.
type ReplyPolicy string

const (
	// ReplyOrphan leaves replies in place, still pointing at the deleted
	// parent. The historical default.
	ReplyOrphan ReplyPolicy = "orphan"
	// ReplyCascade deletes the whole reply subtree.
	ReplyCascade ReplyPolicy = "cascade"
	// ReplyReparent promotes replies to the deleted comment's parent.
	ReplyReparent ReplyPolicy = "reparent"
)

// CascadeReport describes how far a user-deletion cascade got. The cascade
// is not transactional: steps that completed before a failure stay applied,
// and the report makes that partial progress explicit to the caller.
type CascadeReport struct {
	PostsDeleted        int  `json:"posts_deleted"`
	CommentsPurged      bool `json:"comments_purged"`
	StoriesDeleted      int  `json:"stories_deleted"`
	MediaReleased       int  `json:"media_released"`
	MediaFailed         int  `json:"media_failed"`
	GraphDetached       bool `json:"graph_detached"`
	NotificationsPurged bool `json:"notifications_purged"`
	UserDeleted         bool `json:"user_deleted"`
}

// DeletionService walks the dependents of a root entity and removes them in
// a defined order, releasing externally hosted media along the way. Media
// cleanup is best-effort: an unreachable or already-missing asset is logged
// and skipped, never aborting the cascade.
type DeletionService struct {
	postRepo         repositories.PostRepository
	commentRepo      repositories.CommentRepository
	likeRepo         repositories.LikeRepository
	commentLikeRepo  repositories.CommentLikeRepository
	storyRepo        repositories.StoryRepository
	notificationRepo repositories.NotificationRepository
	followRepo       repositories.FollowRepository
	userRepo         repositories.UserRepository
	mediaStore       media.Store
	replyPolicy      ReplyPolicy
	log              *logrus.Logger
}

// NewDeletionService creates a DeletionService with the given reply policy
func NewDeletionService(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	storyRepo repositories.StoryRepository,
	notificationRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	mediaStore media.Store,
	replyPolicy ReplyPolicy,
	log *logrus.Logger,
) *DeletionService {
	if replyPolicy == "" {
		replyPolicy = ReplyOrphan
	}
	return &DeletionService{
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		likeRepo:         likeRepo,
		commentLikeRepo:  commentLikeRepo,
		storyRepo:        storyRepo,
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		userRepo:         userRepo,
		mediaStore:       mediaStore,
		replyPolicy:      replyPolicy,
		log:              log,
	}
}

// DeletePost removes a post with everything referencing it: attached media
// (best-effort), its comments, its like records, and notifications pointing
// at it, then the post itself and the owner's denormalized post counter.
func (s *DeletionService) DeletePost(ctx context.Context, postID string) (released, failed int, err error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return 0, 0, ErrPostNotFound
	}

	released, failed = s.releasePostMedia(ctx, post)

	// comment likes resolve via the comment rows, so they go first
	if err := s.commentLikeRepo.DeleteByPostID(postID); err != nil {
		return released, failed, err
	}
	if err := s.commentRepo.DeleteByPostID(postID); err != nil {
		return released, failed, err
	}
	if err := s.likeRepo.DeleteByPostID(postID); err != nil {
		return released, failed, err
	}
	if err := s.notificationRepo.DeleteByPostID(postID); err != nil {
		return released, failed, err
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		// a concurrent delete may have won the race; the post being gone
		// is the goal, not a failure
		if err.Error() == "post not found" {
			s.log.WithField("post", postID).Debug("post already deleted")
		} else {
			return released, failed, err
		}
	}

	if ownerID, perr := strconv.ParseUint(post.UserID, 10, 32); perr == nil {
		if err := s.userRepo.IncrementPostsCount(uint(ownerID), -1); err != nil {
			return released, failed, err
		}
	}

	return released, failed, nil
}

// DeleteUser removes a user and every entity that would otherwise dangle:
// each owned post (full post cascade, including media), comments authored
// anywhere, stories with their media, follow edges in both directions with
// counterparty counters fixed up, notifications sent or received, and
// finally the user row. The returned report is valid even on error.
func (s *DeletionService) DeleteUser(ctx context.Context, userID uint) (*CascadeReport, error) {
	report := &CascadeReport{}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return report, ErrUserNotFound
	}
	owner := uid(user.ID)

	// Fan out over owned posts one at a time; each needs its own media
	// cleanup, so a bulk delete would leak assets.
	for {
		posts, err := s.postRepo.GetPostsByUserID(ctx, owner, 0, 100)
		if err != nil {
			return report, err
		}
		if len(posts) == 0 {
			break
		}
		for _, post := range posts {
			released, failed, err := s.DeletePost(ctx, post.ID.Hex())
			report.MediaReleased += released
			report.MediaFailed += failed
			if err != nil {
				return report, err
			}
			report.PostsDeleted++
		}
	}

	// Authored comments on other users' posts. Comments on the user's own
	// posts are already gone; DeleteByUserID is idempotent about that.
	// Likes received on those comments go first, while the rows still exist.
	if err := s.commentLikeRepo.DeleteByCommentAuthor(userID); err != nil {
		return report, err
	}
	if err := s.commentRepo.DeleteByUserID(userID); err != nil {
		return report, err
	}
	report.CommentsPurged = true

	stories, err := s.storyRepo.GetAllByUserID(ctx, owner)
	if err != nil {
		return report, err
	}
	for _, story := range stories {
		if s.releaseAsset(ctx, story.URL, story.Type) {
			report.MediaReleased++
		} else {
			report.MediaFailed++
		}
		if err := s.storyRepo.DeleteStory(ctx, story.ID.Hex()); err != nil {
			return report, err
		}
		report.StoriesDeleted++
	}

	// Symmetric graph cleanup: fix the counterparties' denormalized
	// counters, then drop every edge touching the user.
	followerIDs, followingIDs, err := s.followRepo.GetCounterpartIDs(userID)
	if err != nil {
		return report, err
	}
	for _, followerID := range followerIDs {
		if err := s.userRepo.IncrementFollowingCount(followerID, -1); err != nil {
			return report, err
		}
	}
	for _, followingID := range followingIDs {
		if err := s.userRepo.IncrementFollowersCount(followingID, -1); err != nil {
			return report, err
		}
	}
	if err := s.followRepo.DeleteAllForUser(userID); err != nil {
		return report, err
	}
	report.GraphDetached = true

	if err := s.likeRepo.DeleteByUserID(userID); err != nil {
		return report, err
	}
	if err := s.commentLikeRepo.DeleteByUserID(userID); err != nil {
		return report, err
	}

	if err := s.notificationRepo.DeleteByUserID(userID); err != nil {
		return report, err
	}
	report.NotificationsPurged = true

	if err := s.userRepo.DeleteUser(userID); err != nil {
		return report, err
	}
	report.UserDeleted = true

	s.log.WithFields(logrus.Fields{
		"user":           userID,
		"posts":          report.PostsDeleted,
		"stories":        report.StoriesDeleted,
		"media_released": report.MediaReleased,
		"media_failed":   report.MediaFailed,
	}).Info("user cascade complete")

	return report, nil
}

// DeleteComment removes a single comment, applying the configured reply
// policy to its children, and fixes the post's comment counter.
func (s *DeletionService) DeleteComment(ctx context.Context, commentID uint) error {
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return ErrCommentNotFound
	}

	deleted := 1
	switch s.replyPolicy {
	case ReplyCascade:
		n, err := s.deleteReplyTree(commentID)
		if err != nil {
			return err
		}
		deleted += n
	case ReplyReparent:
		if err := s.commentRepo.ReparentReplies(commentID, comment.ParentID); err != nil {
			return err
		}
	case ReplyOrphan:
		// replies keep pointing at the deleted parent
	}

	if err := s.commentLikeRepo.DeleteByCommentID(commentID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteComment(commentID); err != nil {
		return err
	}

	return s.postRepo.IncrementCommentsCount(ctx, comment.PostID, -deleted)
}

func (s *DeletionService) deleteReplyTree(parentID uint) (int, error) {
	replies, err := s.commentRepo.GetReplies(parentID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, reply := range replies {
		n, err := s.deleteReplyTree(reply.ID)
		if err != nil {
			return deleted, err
		}
		deleted += n
		if err := s.commentLikeRepo.DeleteByCommentID(reply.ID); err != nil {
			return deleted, err
		}
		if err := s.commentRepo.DeleteComment(reply.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *DeletionService) releasePostMedia(ctx context.Context, post *models.Post) (released, failed int) {
	for _, url := range post.ImageURLs {
		if s.releaseAsset(ctx, url, media.TypeImage) {
			released++
		} else {
			failed++
		}
	}
	for _, url := range post.VideoURLs {
		if s.releaseAsset(ctx, url, media.TypeVideo) {
			released++
		} else {
			failed++
		}
	}
	return released, failed
}

// releaseAsset deletes one external asset. Failures are logged, not
// retried, and never abort the surrounding cascade.
func (s *DeletionService) releaseAsset(ctx context.Context, url, resourceType string) bool {
	assetID := media.DeriveAssetID(url)
	if assetID == "" {
		s.log.WithField("url", url).Warn("no asset id derivable from media url")
		return false
	}
	if err := s.mediaStore.Delete(ctx, assetID, resourceType); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"asset": assetID,
			"type":  resourceType,
		}).Warn("media release failed")
		return false
	}
	return true
}
