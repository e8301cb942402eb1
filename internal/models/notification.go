package models

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
	NotificationNewPost = "new_post"
	NotificationSystem  = "system"
)

// Notification represents an in-app notification (PostgreSQL). Rows are
// created as side effects of other mutations, never directly by end users.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PostID      string    `json:"post_id,omitempty"` // related post, when applicable
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
