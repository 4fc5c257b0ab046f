// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// Role constants for user authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleUser, RoleAdmin}

// User represents an account that can sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole checks if the user holds a specific role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// SessionUser is the identity resolved from request credentials.
// It is injected into the request context by the session middleware.
type SessionUser struct {
	ID        string
	Email     string
	SessionID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ToSessionUser builds the session identity for u under the given session.
func (u *User) ToSessionUser(sessionID string, expiresAt time.Time) *SessionUser {
	return &SessionUser{
		ID:        u.ID,
		Email:     u.Email,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
		CreatedAt: u.CreatedAt,
	}
}
