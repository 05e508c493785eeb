package auth

import (
	"strings"

	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=255"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
}

func (r *RegisterRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{Field: "name", Message: "name is required"}}
	}
	return validator.Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=255"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken          string            `json:"token"`
	AccessTokenExpiresIn int64             `json:"expiresIn"`
	User                 user.UserResponse `json:"user"`
}
