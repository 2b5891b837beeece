package dto

import "github.com/courselog/courselog-api/internal/models"

// AuthResponse pairs a signed token with the account it identifies.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
