package models

import "time"

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateUserParams holds the validated input for registering a user.
// Password is plaintext here and never reaches the store.
type CreateUserParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserParams holds a partial update. Nil fields are left untouched.
type UpdateUserParams struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}
