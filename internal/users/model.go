// Package users manages accounts and their roles.
package users

import "time"

// Roles. Every account is one of the two; new accounts default to RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is one account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
