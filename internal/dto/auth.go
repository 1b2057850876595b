package dto

import "github.com/dutyops/duty-roster-api/internal/models"

// LoginRequest authenticates an administrator.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued token and the user profile.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      models.User `json:"user"`
}

// AuditLogListResponse pages through the audit trail.
type AuditLogListResponse struct {
	Entries []models.AuditLog `json:"entries"`
	Total   int               `json:"total"`
}
