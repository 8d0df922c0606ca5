package service

import (
	"context"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// TaskService manages tasks on behalf of their owners
type TaskService struct {
	repo  repository.TaskRepository
	users *UserService
	log   *logrus.Logger
}

// NewTaskService initializes a new task service
func NewTaskService(repo repository.TaskRepository, users *UserService, log *logrus.Logger) *TaskService {
	return &TaskService{repo: repo, users: users, log: log}
}

// Create stores a new task owned by ownerID
func (s *TaskService) Create(ctx context.Context, ownerID int64, params models.CreateTaskParams) (*models.Task, error) {
	// The caller is authenticated, but the account may have been deleted
	// since the token was issued.
	owner, err := s.users.FindOne(ctx, ownerID)
	if err != nil {
		return nil, errors.Trace(err)
	}

	task := &models.Task{
		Title:       params.Title,
		Description: params.Description,
		UserID:      owner.ID,
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, errors.Trace(err)
	}

	s.log.Infof("Task %d created for user %d", task.ID, owner.ID)
	return task, nil
}

// FindAll returns the tasks owned by ownerID
func (s *TaskService) FindAll(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, ownerID)
	return tasks, errors.Trace(err)
}

// FindOne returns the task if it exists and belongs to ownerID. Existence is
// checked first so a missing id is NotFound for every caller.
func (s *TaskService) FindOne(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if task.UserID != ownerID {
		return nil, errors.Forbiddenf("task %d does not belong to user %d", id, ownerID)
	}
	return task, nil
}

// Remove deletes an owned task and returns its last known state
func (s *TaskService) Remove(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	task, err := s.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Infof("Task %d deleted by user %d", id, ownerID)
	return task, nil
}
