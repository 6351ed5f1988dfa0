package model

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	default:
		return false
	}
}

// User represents a registered student or teacher
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the projection used to resolve counterpart names.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary returns the id/name projection of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID string
	Role   Role
}

// RegisterRequest is used for creating a new account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     Role   `json:"role" binding:"required,oneof=Student Teacher"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// BatchUsersRequest asks for the names of several users at once
type BatchUsersRequest struct {
	UserIDs []string `json:"userIds"`
}
