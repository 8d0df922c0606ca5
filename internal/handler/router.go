package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/juju/errors"

	"github.com/Dan9191/task-service/internal/middleware"
)

// NewRouter registers every route. Task routes go through guard; user
// routes, login and health are public.
func NewRouter(h *Handler, guard *middleware.Authenticator, metrics *middleware.Metrics, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()
	// Metrics sit outside Recover so recovered panics are counted as 500s.
	r.Use(middleware.RequestLogger(h.log), metrics.Middleware, middleware.Recover(h.log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.fail(w, req, errors.NotFoundf("route %s %s", req.Method, req.URL.Path))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h.fail(w, req, errors.MethodNotAllowedf("method %s on %s", req.Method, req.URL.Path))
	})

	// Public routes
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	users := r.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.UpdateUser).Methods(http.MethodPatch)
	users.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)

	// Protected routes
	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.HandleFunc("", guard.Require(h.CreateTask)).Methods(http.MethodPost)
	tasks.HandleFunc("", guard.Require(h.ListTasks)).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", guard.Require(h.GetTask)).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", guard.Require(h.DeleteTask)).Methods(http.MethodDelete)

	return r
}
