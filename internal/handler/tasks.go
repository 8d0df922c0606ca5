package handler

import (
	"net/http"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/response"
)

// CreateTask creates a task owned by the caller
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	var req CreateTaskRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	task, err := h.tasks.Create(r.Context(), caller.ID, req.params())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, task)
}

// ListTasks returns the caller's tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	tasks, err := h.tasks.FindAll(r.Context(), caller.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, tasks)
}

// GetTask returns one of the caller's tasks
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	task, err := h.tasks.FindOne(r.Context(), id, caller.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, task)
}

// DeleteTask removes one of the caller's tasks and returns it
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request, caller auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	task, err := h.tasks.Remove(r.Context(), id, caller.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, task)
}
