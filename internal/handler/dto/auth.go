// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/rolegate/rolegate/internal/model"
)

// LoginRequest represents the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AdminCheckResponse is the body of GET /api/admin/check.
type AdminCheckResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// StatsResponse represents operational statistics for admins.
type StatsResponse struct {
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Uptime       string            `json:"uptime"`
	AdminChecks  map[string]uint64 `json:"adminChecks"`
	Logins       map[string]uint64 `json:"logins"`
	QuotaAllowed uint64            `json:"quotaAllowed"`
	QuotaDenied  uint64            `json:"quotaDenied"`
	Requests     uint64            `json:"requests"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserFromSession converts a session identity to the API representation.
func UserFromSession(u *model.SessionUser) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserFromModel converts a stored user to the API representation.
func UserFromModel(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
