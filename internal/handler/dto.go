package handler

import (
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/validation"
)

// CreateUserRequest is the body of POST /users. Passwords are capped at
// 72 bytes, the most bcrypt reads.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
}

func (r CreateUserRequest) validate() error {
	return validation.Struct(r)
}

func (r CreateUserRequest) params() models.CreateUserParams {
	return models.CreateUserParams{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// UpdateUserRequest is the body of PATCH /users/{id}. Absent fields are
// left unchanged; present ones follow the same rules as on create.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitnil,required,email"`
	Password  *string `json:"password" validate:"omitnil,required,min=6,maxbytes=72"`
	FirstName *string `json:"firstName" validate:"omitnil,notblank"`
	LastName  *string `json:"lastName" validate:"omitnil,notblank"`
}

func (r UpdateUserRequest) validate() error {
	return validation.Struct(r)
}

func (r UpdateUserRequest) params() models.UpdateUserParams {
	return models.UpdateUserParams{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

func (r CreateTaskRequest) validate() error {
	return validation.Struct(r)
}

func (r CreateTaskRequest) params() models.CreateTaskParams {
	return models.CreateTaskParams{Title: r.Title, Description: r.Description}
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) validate() error {
	return validation.Struct(r)
}
