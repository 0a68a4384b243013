package dto

import (
	"time"

	"hostelhub/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Device   string `json:"device" validate:"omitempty,max=100"`
}

type LoginResponse struct {
	CSRFToken string             `json:"csrf_token"`
	User      *service.Principal `json:"user"`
}

type MeResponse struct {
	CSRFToken string             `json:"csrf_token"`
	User      *service.Principal `json:"user"`
}

type SessionResponse struct {
	ID        string    `json:"id"`
	Device    string    `json:"device,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	TabID     string    `json:"tab_id,omitempty"`
	Current   bool      `json:"current"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}
