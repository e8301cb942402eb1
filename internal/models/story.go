package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story media kinds
const (
	StoryTypeImage = "image"
	StoryTypeVideo = "video"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story represents a time-bounded story stored in MongoDB
type Story struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Type      string             `json:"type" bson:"type"` // "image" or "video"
	URL       string             `json:"url" bson:"url"`
	Viewers   []string           `json:"viewers" bson:"viewers"` // viewer user ids, each counted once
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the story has passed its lifetime
func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	MediaURL string `json:"media_url" validate:"required,url"`
	Type     string `json:"type" validate:"required,oneof=image video"`
}
