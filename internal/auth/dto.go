package auth

import (
	errors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/core/common/validation"
)

// RegisterDTO is the transport shape for registration requests.
type RegisterDTO struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
}

func (dto RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().MaxLength(255)
	v.Field("password", dto.Password).Required().MinLength(6)
	return v.Validate()
}

// LoginDTO is the transport shape for login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required()
	v.Field("password", dto.Password).Required()
	return v.Validate()
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
