package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/service"
)

// memUsers is an in-memory repository.UserRepository
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]models.User{}}
}

func (m *memUsers) Get(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, errors.NotFoundf("user with id %d", id)
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errors.NotFoundf("user with email %s", email)
}

func (m *memUsers) List(context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.User{}
	for _, u := range m.rows {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Save(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.rows {
		if u.Email == user.Email && id != user.ID {
			return errors.AlreadyExistsf("user with this email")
		}
	}
	now := time.Now().UTC()
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
		user.CreatedAt = now
	} else if _, ok := m.rows[user.ID]; !ok {
		return errors.NotFoundf("user with id %d", user.ID)
	}
	user.UpdatedAt = now
	m.rows[user.ID] = *user
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errors.NotFoundf("user with id %d", id)
	}
	delete(m.rows, id)
	return nil
}

// memTasks is an in-memory repository.TaskRepository
type memTasks struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Task
}

func newMemTasks() *memTasks {
	return &memTasks{rows: map[int64]models.Task{}}
}

func (m *memTasks) Get(_ context.Context, id int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, errors.NotFoundf("task with id %d", id)
	}
	return &t, nil
}

func (m *memTasks) ListByUser(_ context.Context, userID int64) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Task{}
	for _, t := range m.rows {
		if t.UserID == userID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTasks) Save(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	task.ID = m.nextID
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	m.rows[task.ID] = *task
	return nil
}

func (m *memTasks) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errors.NotFoundf("task with id %d", id)
	}
	delete(m.rows, id)
	return nil
}

var (
	_ repository.UserRepository = (*memUsers)(nil)
	_ repository.TaskRepository = (*memTasks)(nil)
)

// failingHasher fails every operation, standing in for a broken primitive.
type failingHasher struct{}

func (failingHasher) Hash(string) (string, error)          { return "", errors.New("rng exhausted") }
func (failingHasher) Compare(string, string) (bool, error) { return false, errors.New("rng exhausted") }

// countingHasher records the hashes Compare was asked to check.
type countingHasher struct {
	service.Hasher
	compared []string
}

func (h *countingHasher) Compare(plaintext, hashed string) (bool, error) {
	h.compared = append(h.compared, hashed)
	return h.Hasher.Compare(plaintext, hashed)
}

// recordingNotifier remembers who was welcomed.
type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) SendWelcome(to, _ string) error {
	n.sent = append(n.sent, to)
	return n.err
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
