package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/juju/errors"
)

// TaskRepository provides persistence for tasks. Tasks are never updated
// once stored.
type TaskRepository interface {
	Get(ctx context.Context, id int64) (*models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
}

const (
	taskColumns = `id, title, description, user_id, created_at, updated_at`

	sqlInsertTask = `
		INSERT INTO tasks (title, description, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id`

	sqlGetTask         = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	sqlListTasksByUser = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY id`
	sqlDeleteTask      = `DELETE FROM tasks WHERE id = $1`
)

type taskRepository struct {
	q Querier
}

// NewTaskRepository returns a TaskRepository backed by q
func NewTaskRepository(q Querier) TaskRepository {
	return &taskRepository{q: q}
}

// Get retrieves a task by id regardless of owner
func (r *taskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(r.q.QueryRowContext(ctx, sqlGetTask, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("task with id %d", id))
	}
	return task, nil
}

// ListByUser returns the tasks owned by userID ordered by id
func (r *taskRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	rows, err := r.q.QueryContext(ctx, sqlListTasksByUser, userID)
	if err != nil {
		return nil, mapError(err, "tasks")
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, errors.Annotate(err, "scanning task")
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "tasks")
	}
	return tasks, nil
}

// Save inserts a new task. Saving a task that already has an id is an error.
func (r *taskRepository) Save(ctx context.Context, task *models.Task) error {
	if task.ID != 0 {
		return errors.NotSupportedf("updating task %d", task.ID)
	}
	ts := now()
	err := r.q.QueryRowContext(ctx, sqlInsertTask,
		task.Title, task.Description, task.UserID, ts,
	).Scan(&task.ID)
	if err != nil {
		return mapError(err, fmt.Sprintf("task for user %d", task.UserID))
	}
	task.CreatedAt = ts
	task.UpdatedAt = ts
	return nil
}

// Delete removes a task by id
func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	what := fmt.Sprintf("task with id %d", id)
	res, err := r.q.ExecContext(ctx, sqlDeleteTask, id)
	if err != nil {
		return mapError(err, what)
	}
	return expectOneRow(res, what)
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
