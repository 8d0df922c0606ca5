package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/juju/errors"
)

// UserRepository provides persistence for users
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// Save inserts the user when ID is zero and updates it otherwise.
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

const (
	userColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

	sqlInsertUser = `
		INSERT INTO users (email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`

	sqlUpdateUser = `
		UPDATE users
		SET    email = $1, password_hash = $2, first_name = $3, last_name = $4, updated_at = $5
		WHERE  id = $6`

	sqlGetUser        = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	sqlGetUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	sqlListUsers      = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	sqlDeleteUser     = `DELETE FROM users WHERE id = $1`
)

type userRepository struct {
	q Querier
}

// NewUserRepository returns a UserRepository backed by q
func NewUserRepository(q Querier) UserRepository {
	return &userRepository{q: q}
}

// Get retrieves a user by id
func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, sqlGetUser, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user with id %d", id))
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, sqlGetUserByEmail, email))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user with email %s", email))
	}
	return user, nil
}

// List returns every user ordered by id
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.q.QueryContext(ctx, sqlListUsers)
	if err != nil {
		return nil, mapError(err, "users")
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Annotate(err, "scanning user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "users")
	}
	return users, nil
}

// Save creates or updates the user in the database
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	ts := now()
	if user.ID == 0 {
		err := r.q.QueryRowContext(ctx, sqlInsertUser,
			user.Email, user.PasswordHash, user.FirstName, user.LastName, ts,
		).Scan(&user.ID)
		if err != nil {
			return mapError(err, fmt.Sprintf("user with email %s", user.Email))
		}
		user.CreatedAt = ts
		user.UpdatedAt = ts
		return nil
	}

	res, err := r.q.ExecContext(ctx, sqlUpdateUser,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, ts, user.ID)
	if err != nil {
		return mapError(err, fmt.Sprintf("user with id %d", user.ID))
	}
	if err := expectOneRow(res, fmt.Sprintf("user with id %d", user.ID)); err != nil {
		return err
	}
	user.UpdatedAt = ts
	return nil
}

// Delete removes a user by id
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("user with id %d", id)
	res, err := r.q.ExecContext(ctx, sqlDeleteUser, id)
	if err != nil {
		return mapError(err, what)
	}
	return expectOneRow(res, what)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
