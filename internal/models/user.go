package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// Valid reports whether the role is one of the closed set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName string    `json:"first_name" gorm:"not null;size:100"`
	LastName  string    `json:"last_name" gorm:"size:100"`

	// Role is assigned at registration and never changes afterwards.
	Role UserRole `json:"role" gorm:"not null;size:20;index"`

	// Profile info
	Phone        string `json:"phone" gorm:"size:30"`
	Bio          string `json:"bio" gorm:"type:text"`
	ProfileImage string `json:"profile_image" gorm:"size:500"`

	// Credential hash, never serialized.
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	// Status
	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name, trimming the separator when the
// last name is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
