package auth

import "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"

// RegisterRequest captures the fields needed to open a customer account.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=40"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	FullName string  `json:"full_name" validate:"required,min=2,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

// LoginRequest carries the credentials sent to the login endpoint. Username
// also accepts the account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
