package repositories

import (
	"github.com/novagram/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID string, page, limit int) ([]models.Comment, int64, error)
	GetReplies(parentID uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	IncrementLikesCount(id uint, delta int) error
	SetStatus(id uint, status string) (int64, error)
	DeleteComment(id uint) error
	DeleteByPostID(postID string) error
	DeleteByUserID(userID uint) error
	ReparentReplies(parentID uint, newParentID *uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves comments for a post with offset pagination,
// oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(postID string, page, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, total, err
}

// GetReplies retrieves the direct replies of a comment
func (r *PostgresCommentRepository) GetReplies(parentID uint) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.Where("parent_id = ?", parentID).Order("created_at ASC").Find(&replies).Error
	return replies, err
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// IncrementLikesCount adjusts the comment's denormalized like counter,
// clamped at zero
func (r *PostgresCommentRepository) IncrementLikesCount(id uint, delta int) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).
		Update("likes_count", gorm.Expr("GREATEST(likes_count + ?, 0)", delta)).Error
}

// SetStatus updates a comment's moderation status, returning the number of
// rows touched
func (r *PostgresCommentRepository) SetStatus(id uint, status string) (int64, error) {
	res := r.db.Model(&models.Comment{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Unscoped().Delete(&models.Comment{}, id).Error
}

// DeleteByPostID removes every comment referencing the post
func (r *PostgresCommentRepository) DeleteByPostID(postID string) error {
	return r.db.Unscoped().Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}

// DeleteByUserID removes every comment authored by the user
func (r *PostgresCommentRepository) DeleteByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Comment{}).Error
}

// ReparentReplies points the direct replies of parentID at newParentID
// (nil promotes them to top level)
func (r *PostgresCommentRepository) ReparentReplies(parentID uint, newParentID *uint) error {
	return r.db.Model(&models.Comment{}).Where("parent_id = ?", parentID).Update("parent_id", newParentID).Error
}
