package user

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingFields = errors.New("name, email and password are required")
	ErrInvalidEmail  = errors.New("please provide a valid email")
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Normalize() error {
	r.Name = NormalizeName(r.Name)
	r.Email = NormalizeEmail(r.Email)
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	if err := validate.Struct(r); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// Normalize trims the descriptive fields; an email, when given, must be well formed.
func (r *UpdateProfileRequest) Normalize() error {
	r.Name = NormalizeName(r.Name)
	r.Email = NormalizeEmail(r.Email)
	if err := validate.Struct(r); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

type RegisterResponse struct {
	User PublicUser `json:"user"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
