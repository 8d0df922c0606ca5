package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/logging"
	"github.com/Dan9191/task-service/internal/response"
)

// Recover turns a panicking handler into a 500 response. The panic is logged
// here once; the response goes out without a second error log.
func Recover(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logging.FromContext(r.Context(), log).
					WithField("panic_stack", string(debug.Stack())).
					Errorf("Handler panicked: %v", p)
				status := http.StatusInternalServerError
				response.JSON(w, status, response.ErrorBody{
					StatusCode: status,
					Error:      http.StatusText(status),
					Message:    "internal server error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
