package models

import "gorm.io/gorm"

// Like is a toggle-state record for a (user, post) pair. The row is created
// once on first like and IsLiked flips on every subsequent toggle; the row
// itself is never deleted by toggling.
type Like struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	UserID  uint   `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	IsLiked bool   `json:"is_liked"`
}
