// Package transport defines request/response DTOs for the auth HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserResponse is the authenticated user's profile.
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CompanyID          *uuid.UUID `json:"companyId,omitempty"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           *string    `json:"lastName,omitempty"`
	Role               string     `json:"role"`
	MustChangePassword bool       `json:"mustChangePassword"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// ChangePasswordRequest carries a password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}
