package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Admin roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Admin represents a console account with permission flags (PostgreSQL)
type Admin struct {
	gorm.Model    `json:"-"`
	ID            uint   `json:"id" gorm:"primaryKey"`
	Username      string `json:"username" gorm:"uniqueIndex;size:30"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	Password      string `json:"-"`
	Role          string `json:"role" gorm:"size:20;default:'admin'"`
	ManageUsers   bool   `json:"manage_users" gorm:"default:false"`
	ManageContent bool   `json:"manage_content" gorm:"default:false"`
	ViewAnalytics bool   `json:"view_analytics" gorm:"default:false"`
	ManageSystem  bool   `json:"manage_system" gorm:"default:false"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
}

// Can reports whether the admin holds the named permission. Super admins
// hold every permission implicitly.
func (a *Admin) Can(permission string) bool {
	if a.Role == RoleSuperAdmin {
		return true
	}
	switch permission {
	case "manage_users":
		return a.ManageUsers
	case "manage_content":
		return a.ManageContent
	case "view_analytics":
		return a.ViewAnalytics
	case "manage_system":
		return a.ManageSystem
	}
	return false
}

// AdminClaims are JWT claims for admin console tokens
type AdminClaims struct {
	AdminID uint   `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}
