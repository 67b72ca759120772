package user

import (
	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "a valid email is required",
		})
	}
	if !validator.MinLength(r.Password, 8) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsInSlice(r.Role, ValidRoles()) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of FOUNDER, AMMINISTRATORE, COLLABORATORE",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
		Active: u.Active,
	}
}
