package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStaff    UserRole = "staff"
	RoleCustomer UserRole = "customer"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// IsStaff is true for roles allowed into the dashboard; admin is a superset of staff.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User may carry a local credential, a Google identity, or both.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     *string   `json:"username" gorm:"size:150;uniqueIndex"`
	Email        *string   `json:"email" gorm:"size:150;uniqueIndex"`
	PasswordHash *string   `json:"-" gorm:"size:200"`
	GoogleID     *string   `json:"-" gorm:"size:200;uniqueIndex"`
	Role         UserRole  `json:"role" gorm:"size:50;not null;default:'customer'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the username, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
