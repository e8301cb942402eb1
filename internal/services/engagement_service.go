package services

import (
	"context"
	"strconv"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// EngagementService owns the like toggles and comment creation, keeping the
// like rows, the post's liker array, the denormalized counters, and
// notifications in step.
type EngagementService struct {
	likeRepo        repositories.LikeRepository
	postRepo        repositories.PostRepository
	commentRepo     repositories.CommentRepository
	commentLikeRepo repositories.CommentLikeRepository
	notifier        *NotifierService
	log             *logrus.Logger
}

// NewEngagementService creates an EngagementService
func NewEngagementService(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	notifier *NotifierService,
	log *logrus.Logger,
) *EngagementService {
	return &EngagementService{
		likeRepo:        likeRepo,
		postRepo:        postRepo,
		commentRepo:     commentRepo,
		commentLikeRepo: commentLikeRepo,
		notifier:        notifier,
		log:             log,
	}
}

// ToggleLike flips the caller's like state on a post. The first toggle
// creates the like record with IsLiked=true; repeats alternate it. The
// post's liker set follows the record's state, and only a first-time like
// notifies the owner. The toggle record is the source of truth: it is
// written under a row lock, and the array converges to it.
func (s *EngagementService) ToggleLike(ctx context.Context, userID uint, postID string) (bool, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return false, ErrPostNotFound
	}

	liked, err := s.likeRepo.Toggle(postID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.postRepo.AddLiker(ctx, postID, uid(userID)); err != nil {
			return liked, err
		}
		ownerID, perr := strconv.ParseUint(post.UserID, 10, 32)
		if perr == nil {
			if err := s.notifier.NotifyLike(ctx, userID, uint(ownerID), postID); err != nil {
				s.log.WithError(err).Warn("like notification failed")
			}
		}
	} else {
		if err := s.postRepo.RemoveLiker(ctx, postID, uid(userID)); err != nil {
			return liked, err
		}
	}

	return liked, nil
}

// ToggleCommentLike flips the caller's like state on a comment and keeps
// the comment's like counter in step with the toggle row.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, userID uint, commentID uint) (bool, error) {
	if _, err := s.commentRepo.GetCommentByID(commentID); err != nil {
		return false, ErrCommentNotFound
	}

	liked, err := s.commentLikeRepo.Toggle(commentID, userID)
	if err != nil {
		return false, err
	}

	delta := 1
	if !liked {
		delta = -1
	}
	if err := s.commentRepo.IncrementLikesCount(commentID, delta); err != nil {
		return liked, err
	}

	return liked, nil
}

// AddComment creates a comment on a post, bumps the post's comment counter,
// and notifies the post owner. A reply must point at a parent on the same
// post.
func (s *EngagementService) AddComment(ctx context.Context, userID uint, req *models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.postRepo.GetPostByID(ctx, req.PostID)
	if err != nil {
		return nil, ErrPostNotFound
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetCommentByID(*req.ParentID)
		if err != nil || parent.PostID != req.PostID {
			return nil, ErrCommentNotFound
		}
	}

	comment := &models.Comment{
		PostID:   req.PostID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
		MediaURL: req.MediaURL,
		Status:   models.ModerationPending,
	}
	if err := s.commentRepo.CreateComment(comment); err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementCommentsCount(ctx, req.PostID, 1); err != nil {
		return nil, err
	}

	if ownerID, perr := strconv.ParseUint(post.UserID, 10, 32); perr == nil {
		if err := s.notifier.NotifyComment(ctx, userID, uint(ownerID), req.PostID); err != nil {
			s.log.WithError(err).Warn("comment notification failed")
		}
	}

	return comment, nil
}
