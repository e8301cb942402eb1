package services

import (
	"context"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// PushPayload is the structured message handed to the push sink. Delivery
// success or failure never flows back into business state.
type PushPayload struct {
	Type       string `json:"type"`
	PostID     string `json:"post_id,omitempty"`
	ActorID    uint   `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	TargetUser uint   `json:"target_user"`
}

// PushSender delivers a payload to a user's devices. Implementations are
// best-effort collaborators (FCM in production).
type PushSender interface {
	Send(ctx context.Context, recipientID uint, title, body string, payload PushPayload) error
}

// NotifierService fans out in-app notifications for qualifying content
// events, synchronously within the triggering request.
type NotifierService struct {
	notificationRepo repositories.NotificationRepository
	followRepo       repositories.FollowRepository
	userRepo         repositories.UserRepository
	push             PushSender
	log              *logrus.Logger
}

// NewNotifierService creates a NotifierService. push may be nil when no sink
// is configured.
func NewNotifierService(
	notificationRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	push PushSender,
	log *logrus.Logger,
) *NotifierService {
	return &NotifierService{
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		userRepo:         userRepo,
		push:             push,
		log:              log,
	}
}

// NotifyNewPost creates one notification per follower of the author. Rows
// are batch-inserted; per-follower sequential writes do not survive
// high-follower accounts.
func (s *NotifierService) NotifyNewPost(ctx context.Context, authorID uint, postID string) error {
	author, err := s.userRepo.GetUserByID(authorID)
	if err != nil {
		return ErrUserNotFound
	}

	followerIDs, err := s.followRepo.GetFollowerIDs(authorID)
	if err != nil {
		return err
	}
	if len(followerIDs) == 0 {
		return nil
	}

	message := author.DisplayName + " shared a new post"
	notifications := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		if followerID == authorID {
			continue
		}
		notifications = append(notifications, models.Notification{
			Type:        models.NotificationNewPost,
			ActorID:     authorID,
			RecipientID: followerID,
			PostID:      postID,
			Message:     message,
		})
	}

	if err := s.notificationRepo.CreateNotifications(notifications); err != nil {
		return err
	}

	for _, n := range notifications {
		s.sendPush(ctx, n.RecipientID, "New post", message, PushPayload{
			Type:       models.NotificationNewPost,
			PostID:     postID,
			ActorID:    authorID,
			ActorName:  author.DisplayName,
			TargetUser: n.RecipientID,
		})
	}
	return nil
}

// NotifyLike notifies a post owner that someone liked their post. Liking
// your own post produces nothing.
func (s *NotifierService) NotifyLike(ctx context.Context, actorID, ownerID uint, postID string) error {
	return s.notifyOne(ctx, models.NotificationLike, actorID, ownerID, postID, " liked your post")
}

// NotifyComment notifies a post owner about a new comment on their post
func (s *NotifierService) NotifyComment(ctx context.Context, actorID, ownerID uint, postID string) error {
	return s.notifyOne(ctx, models.NotificationComment, actorID, ownerID, postID, " commented on your post")
}

// NotifyFollow notifies a user that someone started following them
func (s *NotifierService) NotifyFollow(ctx context.Context, actorID, targetID uint) error {
	return s.notifyOne(ctx, models.NotificationFollow, actorID, targetID, "", " started following you")
}

// NotifySystem inserts an admin-triggered system notice for a user
func (s *NotifierService) NotifySystem(ctx context.Context, adminID, recipientID uint, message string) error {
	n := &models.Notification{
		Type:        models.NotificationSystem,
		ActorID:     adminID,
		RecipientID: recipientID,
		Message:     message,
	}
	return s.notificationRepo.CreateNotification(n)
}

func (s *NotifierService) notifyOne(ctx context.Context, kind string, actorID, recipientID uint, postID, suffix string) error {
	// no self-notification
	if actorID == recipientID {
		return nil
	}

	actor, err := s.userRepo.GetUserByID(actorID)
	if err != nil {
		return ErrUserNotFound
	}

	n := &models.Notification{
		Type:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		Message:     actor.DisplayName + suffix,
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		return err
	}

	s.sendPush(ctx, recipientID, "Novagram", n.Message, PushPayload{
		Type:       kind,
		PostID:     postID,
		ActorID:    actorID,
		ActorName:  actor.DisplayName,
		TargetUser: recipientID,
	})
	return nil
}

func (s *NotifierService) sendPush(ctx context.Context, recipientID uint, title, body string, payload PushPayload) {
	if s.push == nil {
		return
	}
	if err := s.push.Send(ctx, recipientID, title, body, payload); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"recipient": recipientID,
			"type":      payload.Type,
		}).Warn("push delivery failed")
	}
}
