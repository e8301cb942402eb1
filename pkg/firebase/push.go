package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"github.com/novagram/backend/internal/services"
)

// FCMPushSender delivers push payloads through Firebase Cloud Messaging.
// Each user is subscribed to a per-user topic on their devices.
type FCMPushSender struct {
	client *messaging.Client
}

// NewFCMPushSender creates an FCMPushSender
func NewFCMPushSender(client *messaging.Client) *FCMPushSender {
	return &FCMPushSender{client: client}
}

// Send publishes one message to the recipient's topic
func (s *FCMPushSender) Send(ctx context.Context, recipientID uint, title, body string, payload services.PushPayload) error {
	msg := &messaging.Message{
		Topic: fmt.Sprintf("user-%d", recipientID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":     payload.Type,
			"post_id":  payload.PostID,
			"actor_id": fmt.Sprintf("%d", payload.ActorID),
			"actor":    payload.ActorName,
		},
	}
	_, err := s.client.Send(ctx, msg)
	return err
}
