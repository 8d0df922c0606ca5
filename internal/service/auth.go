package service

import (
	"context"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/models"
)

// TokenIssuer creates access tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (auth.Token, error)
}

// AuthService authenticates users by email and password
type AuthService struct {
	users  *UserService
	hasher Hasher
	tokens TokenIssuer
	log    *logrus.Logger

	// decoy is compared against when the email is unknown, so both
	// failures cost one hash comparison.
	decoy string
}

// NewAuthService initializes a new auth service
func NewAuthService(users *UserService, hasher Hasher, tokens TokenIssuer, log *logrus.Logger) *AuthService {
	decoy, err := hasher.Hash("decoy password")
	if err != nil {
		log.Warnf("Failed to prepare login decoy hash: %v", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, decoy: decoy}
}

// Login checks the credentials and returns an access token. Unknown emails
// and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Token, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, errors.NotFound) {
		_, _ = s.hasher.Compare(password, s.decoy)
		return auth.Token{}, errors.Unauthorizedf("invalid credentials")
	}
	if err != nil {
		return auth.Token{}, errors.Trace(err)
	}

	ok, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return auth.Token{}, errors.Trace(err)
	}
	if !ok {
		return auth.Token{}, errors.Unauthorizedf("invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return auth.Token{}, errors.Trace(err)
	}
	s.log.Infof("User logged in: %s", user.Email)
	return token, nil
}
