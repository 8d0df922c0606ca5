package models

import "time"

// Task represents a task owned by exactly one user
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskParams holds the validated input for creating a task.
type CreateTaskParams struct {
	Title       string
	Description string
}
