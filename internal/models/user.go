package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User represents an account stored in PostgreSQL
type User struct {
	gorm.Model         `json:"-"`
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Username           string     `json:"username" gorm:"uniqueIndex;size:30"`
	Email              string     `json:"email" gorm:"uniqueIndex"`
	Phone              *string    `json:"phone,omitempty" gorm:"uniqueIndex"` // nullable so the unique index ignores absent numbers
	Password           string     `json:"-"`                                  // bcrypt hash, never serialized
	DisplayName        string     `json:"display_name"`
	Bio                string     `json:"bio,omitempty"`
	ProfilePictureURL  string     `json:"profile_picture_url,omitempty"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	SuspendedUntil     *time.Time `json:"suspended_until,omitempty"`
	DeactivationReason string     `json:"deactivation_reason,omitempty"`
	FollowersCount     int        `json:"followers_count" gorm:"default:0"`
	FollowingCount     int        `json:"following_count" gorm:"default:0"`
	PostsCount         int        `json:"posts_count" gorm:"default:0"`
}

// UserCompact is the trimmed author view embedded in feed and notification responses
type UserCompact struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	DisplayName       string `json:"display_name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:                u.ID,
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// Suspended reports whether the user is currently under an admin suspension
func (u *User) Suspended(now time.Time) bool {
	return u.SuspendedUntil != nil && now.Before(*u.SuspendedUntil)
}

type RegisterUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Phone       string `json:"phone" validate:"omitempty,e164"`
}

type UpdateUserRequest struct {
	DisplayName       string `json:"display_name,omitempty" validate:"omitempty,max=50"`
	Bio               string `json:"bio,omitempty" validate:"omitempty,max=160"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty" validate:"omitempty,url"`
	Phone             string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
