package model

import "time"

// User represents a storefront customer account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required,min=6,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the signin payload.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user. It never carries the password.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserResponse
	Token string `json:"token"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToResponse strips the user down to its public fields.
func (u *User) ToResponse() UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Phone: u.Phone}
}
