package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation states shared by posts and comments
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
	ModerationFlagged  = "flagged"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"` // owner's numeric id rendered as string
	Content       string             `json:"content" bson:"content"`
	ImageURLs     []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	VideoURLs     []string           `json:"video_urls,omitempty" bson:"video_urls,omitempty"`
	Likes         []string           `json:"likes" bson:"likes"` // liker user ids, set semantics
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	Status        string             `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"omitempty,max=500"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=5,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,max=2,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content   string   `json:"content,omitempty" validate:"omitempty,max=500"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,max=5,dive,url"`
	VideoURLs []string `json:"video_urls,omitempty" validate:"omitempty,max=2,dive,url"`
}
