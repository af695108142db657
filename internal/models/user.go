package models

import (
	"strings"
	"time"
)

const (
	RoleUser       = "user"
	RoleSuperadmin = "superadmin"
)

// User represents a platform account. Email is stored normalized.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FullName          string    `gorm:"not null" json:"full_name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"column:password;not null" json:"-" swaggerignore:"true"`
	Phone             *string   `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	IsSuperadmin      bool      `gorm:"not null;default:false" json:"is_superadmin"`
	AgreeTerms        bool      `gorm:"not null" json:"agree_terms"`
	VerificationToken *string   `json:"-" swaggerignore:"true"`
	IsVerified        bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Role reports the single role the account holds.
func (u *User) Role() string {
	if u.IsSuperadmin {
		return RoleSuperadmin
	}
	return RoleUser
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
