package dto

import "TODOAPP_BACK-END/internal/models"

// CredentialsRequest is the body of registration and login
type CredentialsRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secret123"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    string `json:"_id" example:"507f1f77bcf86cd799439011"`
	Email string `json:"email" example:"user@example.com"`
}

// TokenResponse carries a freshly issued auth token
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ToPublicView strips everything but id and email.
func ToPublicView(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}
