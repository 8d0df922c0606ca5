// Package response writes JSON bodies and maps errors to HTTP statuses.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/logging"
	"github.com/Dan9191/task-service/internal/validation"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	StatusCode int                     `json:"statusCode"`
	Error      string                  `json:"error"`
	Message    string                  `json:"message"`
	Fields     []validation.FieldError `json:"fields,omitempty"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error translates err into a status code and writes it. Server errors are
// logged with their trace and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	status := Status(err)
	body := ErrorBody{StatusCode: status, Error: http.StatusText(status), Message: err.Error()}

	var fields validation.Errors
	if errors.As(err, &fields) {
		body.Message = "validation failed"
		body.Fields = fields
	}

	entry := logging.FromContext(r.Context(), log)
	if status >= http.StatusInternalServerError {
		entry.WithField("stack", errors.ErrorStack(err)).Errorf("Request failed: %v", err)
		body.Message = "internal server error"
	} else {
		entry.Debugf("Request rejected: %v", err)
	}
	JSON(w, status, body)
}

// Status returns the HTTP status matching the category of err
func Status(err error) int {
	switch {
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.Unauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.Forbidden):
		return http.StatusForbidden
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.MethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, errors.AlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errors.QuotaLimitExceeded):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
