package dto

// Auth Request DTOs

// LoginRequest contains login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains user registration data
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required"`
}

// Auth Response DTOs

// TokenResponse is the login response; a missing token is a malformed response
type TokenResponse struct {
	Token string `json:"token"`
}
