package repository_test

import (
	"context"
	"database/sql"

	qt "github.com/frankban/quicktest"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

const testSchema = `
	CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		first_name    TEXT     NOT NULL,
		last_name     TEXT     NOT NULL,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	);
	CREATE TABLE tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT     NOT NULL,
		description TEXT     NOT NULL,
		user_id     INTEGER  NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	);`

// newTestDB opens an in-memory SQLite database with the service schema.
// The pool is pinned to one connection because every connection to
// ":memory:" is a separate database.
func newTestDB(c *qt.C) *sql.DB {
	c.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	c.Assert(err, qt.IsNil)
	db.SetMaxOpenConns(1)
	c.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	c.Assert(err, qt.IsNil)
	return db
}

func insertUser(c *qt.C, users repository.UserRepository, email string) *models.User {
	c.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "$2a$04$hash",
		FirstName:    "First",
		LastName:     "Last",
	}
	c.Assert(users.Save(context.Background(), u), qt.IsNil)
	return u
}
