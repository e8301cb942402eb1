package repositories

import (
	"errors"

	"github.com/novagram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like toggle-state records
type LikeRepository interface {
	// Toggle flips the like state for the (post, user) pair, creating the
	// row with IsLiked=true if it does not exist. Returns the resulting
	// state.
	Toggle(postID string, userID uint) (bool, error)
	GetLike(postID string, userID uint) (*models.Like, error)
	GetLikerIDs(postID string) ([]uint, error)
	GetLikesCountByPostID(postID string) (int64, error)
	HasUserLikedPost(postID string, userID uint) (bool, error)
	DeleteByPostID(postID string) error
	DeleteByUserID(userID uint) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Toggle serializes concurrent toggles on the same pair with a row lock so
// the read-modify-write cannot interleave. First toggle creates the row
// with IsLiked=true.
func (r *PostgresLikeRepository) Toggle(postID string, userID uint) (bool, error) {
	var state bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var like models.Like
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			First(&like).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			like = models.Like{PostID: postID, UserID: userID, IsLiked: true}
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

// GetLike retrieves the toggle record for a (post, user) pair
func (r *PostgresLikeRepository) GetLike(postID string, userID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

// GetLikerIDs returns the ids of users currently liking the post
func (r *PostgresLikeRepository) GetLikerIDs(postID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("post_id = ? AND is_liked = true", postID).Pluck("user_id", &ids).Error
	return ids, err
}

// GetLikesCountByPostID counts active likes for a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ? AND is_liked = true", postID).Count(&count).Error
	return count, err
}

// HasUserLikedPost checks if a user currently likes a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ? AND is_liked = true", postID, userID).Count(&count).Error
	return count > 0, err
}

// DeleteByPostID removes every like record referencing the post
func (r *PostgresLikeRepository) DeleteByPostID(postID string) error {
	return r.db.Unscoped().Where("post_id = ?", postID).Delete(&models.Like{}).Error
}

// DeleteByUserID removes every like record created by the user
func (r *PostgresLikeRepository) DeleteByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Like{}).Error
}
