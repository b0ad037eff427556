package model

import (
	"fmt"
	"time"

	"github.com/deppfellow/jobtracker/internal/validation"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is one row of users. HashedPassword never leaves the process.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	FullName       *string    `json:"full_name"`
	Role           Role       `json:"role"`
	HashedPassword string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// ------------------------------------------------------------

// RegisterUserRequest carries a plaintext password; it is hashed before it
// reaches storage. bcrypt only reads the first 72 bytes.
type RegisterUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=100"`
	Username string  `json:"username" validate:"required,min=1,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin user"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterUserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return checkPasswordBytes(r.Password)
}

// ------------------------------------------------------------

type GetUserRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *GetUserRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

type GetUserByUsernameRequest struct {
	Username string `param:"username" validate:"required,max=100"`
}

func (r *GetUserByUsernameRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// UpdateUserRequest is a merge-patch. A supplied Password is re-hashed.
type UpdateUserRequest struct {
	ID       string  `param:"id" json:"-" validate:"required,uuid"`
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=admin user"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateUserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Password == nil {
		return nil
	}
	return checkPasswordBytes(*r.Password)
}

// MaxPasswordBytes is the longest password bcrypt accepts. The max tag on the
// request structs counts runes, so multi-byte input is checked here as well.
const MaxPasswordBytes = 72

func checkPasswordBytes(password string) error {
	if len(password) > MaxPasswordBytes {
		return validation.CustomValidationErrors{
			{Field: "password", Message: fmt.Sprintf("must not exceed %d bytes", MaxPasswordBytes)},
		}
	}
	return nil
}

// ------------------------------------------------------------

type DeleteUserRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *DeleteUserRequest) Validate() error {
	return validation.Struct(r)
}
