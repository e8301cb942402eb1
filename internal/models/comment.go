package models

import "gorm.io/gorm"

// Comment represents a comment on a post, optionally threaded under a parent
type Comment struct {
	gorm.Model
	PostID     string `json:"post_id" gorm:"index"` // MongoDB ObjectID of the post, as string
	UserID     uint   `json:"user_id" gorm:"index"`
	ParentID   *uint  `json:"parent_id,omitempty" gorm:"index"` // nil for top-level comments
	Content    string `json:"content"`
	MediaURL   string `json:"media_url,omitempty"`
	LikesCount int    `json:"likes_count" gorm:"default:0"`
	Status     string `json:"status" gorm:"size:20;default:'pending'"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID   string `json:"post_id" validate:"required"`
	ParentID *uint  `json:"parent_id,omitempty"`
	Content  string `json:"content" validate:"required,min=1,max=500"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
