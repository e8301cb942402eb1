package models

import "gorm.io/gorm"

// CommentLike is a toggle-state record for a (user, comment) pair, the
// comment-side counterpart of Like. The row is created once on first like
// and IsLiked flips on every subsequent toggle.
type CommentLike struct {
	gorm.Model
	CommentID uint `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    uint `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	IsLiked   bool `json:"is_liked"`
}
