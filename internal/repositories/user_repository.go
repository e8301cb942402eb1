package repositories

import (
	"time"

	"github.com/novagram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsers(page, limit int) ([]models.User, int64, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	SearchUsers(query string) ([]models.User, error)
	SetSuspension(id uint, until *time.Time, reason string) error
	SetActive(id uint, active bool) error
	IncrementFollowersCount(id uint, delta int) error
	IncrementFollowingCount(id uint, delta int) error
	IncrementPostsCount(id uint, delta int) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username from PostgreSQL
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves users with offset pagination
func (r *PostgresUserRepository) GetUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// GetUsersByIDs retrieves the users matching the given ids
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser deletes a user by ID from PostgreSQL
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Unscoped().Delete(&models.User{}, id).Error
}

// SearchUsers searches for users by username or display name (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.Where("LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Limit(50).Find(&users).Error
	return users, err
}

// SetSuspension sets or clears a user's suspension window
func (r *PostgresUserRepository) SetSuspension(id uint, until *time.Time, reason string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"suspended_until":     until,
		"deactivation_reason": reason,
	}).Error
}

// SetActive toggles a user's active flag
func (r *PostgresUserRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active).Error
}

// IncrementFollowersCount adjusts the denormalized followers counter
func (r *PostgresUserRepository) IncrementFollowersCount(id uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("followers_count", gorm.Expr("GREATEST(followers_count + ?, 0)", delta)).Error
}

// IncrementFollowingCount adjusts the denormalized following counter
func (r *PostgresUserRepository) IncrementFollowingCount(id uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("following_count", gorm.Expr("GREATEST(following_count + ?, 0)", delta)).Error
}

// IncrementPostsCount adjusts the denormalized posts counter
func (r *PostgresUserRepository) IncrementPostsCount(id uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("posts_count", gorm.Expr("GREATEST(posts_count + ?, 0)", delta)).Error
}
