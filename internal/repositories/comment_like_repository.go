package repositories

import (
	"errors"

	"github.com/novagram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines the interface for comment like toggle-state
// records
type CommentLikeRepository interface {
	// Toggle flips the like state for the (comment, user) pair, creating
	// the row with IsLiked=true if it does not exist. Returns the
	// resulting state.
	Toggle(commentID, userID uint) (bool, error)
	GetLikesCount(commentID uint) (int64, error)
	HasUserLikedComment(commentID, userID uint) (bool, error)
	DeleteByCommentID(commentID uint) error
	DeleteByUserID(userID uint) error
	DeleteByPostID(postID string) error
	DeleteByCommentAuthor(authorID uint) error
}

// PostgresCommentLikeRepository implements CommentLikeRepository for
// PostgreSQL
type PostgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a new PostgresCommentLikeRepository
func NewPostgresCommentLikeRepository(db *gorm.DB) *PostgresCommentLikeRepository {
	return &PostgresCommentLikeRepository{db: db}
}

// Toggle serializes concurrent toggles on the same pair with a row lock.
// First toggle creates the row with IsLiked=true.
func (r *PostgresCommentLikeRepository) Toggle(commentID, userID uint) (bool, error) {
	var state bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var like models.CommentLike
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			First(&like).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			like = models.CommentLike{CommentID: commentID, UserID: userID, IsLiked: true}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			state = true
			return nil
		}
		if err != nil {
			return err
		}
		like.IsLiked = !like.IsLiked
		if err := tx.Save(&like).Error; err != nil {
			return err
		}
		state = like.IsLiked
		return nil
	})
	return state, err
}

// GetLikesCount counts active likes for a comment
func (r *PostgresCommentLikeRepository) GetLikesCount(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND is_liked = true", commentID).Count(&count).Error
	return count, err
}

// HasUserLikedComment checks if a user currently likes a specific comment
func (r *PostgresCommentLikeRepository) HasUserLikedComment(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ? AND is_liked = true", commentID, userID).Count(&count).Error
	return count > 0, err
}

// DeleteByCommentID removes every like record referencing the comment
func (r *PostgresCommentLikeRepository) DeleteByCommentID(commentID uint) error {
	return r.db.Unscoped().Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error
}

// DeleteByUserID removes every comment like record created by the user
func (r *PostgresCommentLikeRepository) DeleteByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.CommentLike{}).Error
}

// DeleteByPostID removes like records for every comment on the post. Must
// run while the comment rows still exist.
func (r *PostgresCommentLikeRepository) DeleteByPostID(postID string) error {
	return r.db.Unscoped().
		Where("comment_id IN (?)", r.db.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)).
		Delete(&models.CommentLike{}).Error
}

// DeleteByCommentAuthor removes like records on every comment authored by
// the user. Must run while the comment rows still exist.
func (r *PostgresCommentLikeRepository) DeleteByCommentAuthor(authorID uint) error {
	return r.db.Unscoped().
		Where("comment_id IN (?)", r.db.Model(&models.Comment{}).Select("id").Where("user_id = ?", authorID)).
		Delete(&models.CommentLike{}).Error
}
