package models

import "time"

// RoleName is the closed set of roles known to the API.
type RoleName string

const (
	RoleAdmin      RoleName = "Admin"
	RoleInstructor RoleName = "Instructor"
	RoleStudent    RoleName = "Student"
)

// Valid reports whether the role name belongs to the closed set.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// Role maps a fixed role name to its identifier.
type Role struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Name RoleName `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

// Fixed role identifiers, seeded at startup.
const (
	RoleIDAdmin      uint = 1
	RoleIDInstructor uint = 2
	RoleIDStudent    uint = 3
)

// DefaultRoles returns the closed role set in seed order.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleIDAdmin, Name: RoleAdmin},
		{ID: RoleIDInstructor, Name: RoleInstructor},
		{ID: RoleIDStudent, Name: RoleStudent},
	}
}

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User represents an account that can authenticate against the API.
// The credential hash is never serialized outward.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CredentialHash string    `gorm:"size:255;not null" json:"-"`
	RoleID         uint      `gorm:"not null" json:"role_id"`
	Status         string    `gorm:"size:16;not null;default:active" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Role           Role      `json:"role"`
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(name RoleName) bool {
	return u.Role.Name == name
}
