package middleware

import (
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/response"
)

// IdentityHandlerFunc is a handler for routes that require a caller.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, caller auth.Identity)

// TokenParser resolves a bearer token into a caller identity
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// Authenticator guards protected routes
type Authenticator struct {
	tokens TokenParser
	log    *logrus.Logger
}

// NewAuthenticator creates a guard verifying tokens with tokens
func NewAuthenticator(tokens TokenParser, log *logrus.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

// Require rejects requests without a valid bearer token and hands the
// resolved identity to next.
func (a *Authenticator) Require(next IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			response.Error(w, r, a.log, err)
			return
		}
		caller, err := a.tokens.Parse(token)
		if err != nil {
			response.Error(w, r, a.log, err)
			return
		}
		next(w, r, caller)
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.Unauthorizedf("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.Unauthorizedf("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}
