package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type GoogleSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Image       string    `json:"image,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Role        string    `json:"role"`
	IsOnboarded bool      `json:"is_onboarded"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	User      *UserResponse `json:"user"`
}
