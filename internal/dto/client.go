package dto

// Client Request DTOs

// CreateClientRequest is the payload for registering a bank client
type CreateClientRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	BirthDate   string `json:"birthDate,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Nationality string `json:"nationality,omitempty"`
}
