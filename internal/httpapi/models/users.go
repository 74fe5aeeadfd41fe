package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. It gates every protected route,
// so new values must be added here and handled at each role check.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string  `gorm:"uniqueIndex;not null" json:"username"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	Password       string  `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role           Role    `gorm:"default:'student';not null" json:"role"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Department     *string `json:"department,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"` // stored filename under the user data path

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// FullName returns "First Last", falling back to the username when the
// name fields were never filled in.
func (user *User) FullName() string {
	if user.FirstName == "" && user.LastName == "" {
		return user.Username
	}
	if user.LastName == "" {
		return user.FirstName
	}
	return user.FirstName + " " + user.LastName
}

func (User) TableName() string {
	return "users"
}
