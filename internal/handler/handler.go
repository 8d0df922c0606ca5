package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/response"
	"github.com/Dan9191/task-service/internal/validation"
)

const maxBodyBytes = 1 << 20

// UserService is the user operations the handlers call
type UserService interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	FindOne(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error)
	Remove(ctx context.Context, id int64) (*models.User, error)
}

// TaskService is the task operations the handlers call
type TaskService interface {
	Create(ctx context.Context, ownerID int64, params models.CreateTaskParams) (*models.Task, error)
	FindAll(ctx context.Context, ownerID int64) ([]*models.Task, error)
	FindOne(ctx context.Context, id, ownerID int64) (*models.Task, error)
	Remove(ctx context.Context, id, ownerID int64) (*models.Task, error)
}

// AuthService exchanges credentials for a token
type AuthService interface {
	Login(ctx context.Context, email, password string) (auth.Token, error)
}

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users UserService
	tasks TaskService
	auth  AuthService
	db    Pinger
	log   *logrus.Logger
}

func NewHandler(users UserService, tasks TaskService, auth AuthService, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{users: users, tasks: tasks, auth: auth, db: db, log: log}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.Error(w, r, h.log, err)
}

// decode reads a JSON body into dst, rejecting unknown fields and trailing
// data.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.QuotaLimitExceededf("request body larger than %d bytes", tooLarge.Limit)
		}
		return errors.BadRequestf("malformed request body: %v", err)
	}
	if dec.More() {
		return errors.BadRequestf("malformed request body: trailing data")
	}
	return nil
}

// pathID parses the {id} route variable. Ids must be positive integers.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Field("id", "must be a positive integer, got %q", raw)
	}
	return id, nil
}
