package service

import (
	"context"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// UserService manages user accounts
type UserService struct {
	repo     repository.UserRepository
	hasher   Hasher
	notifier Notifier
	log      *logrus.Logger
}

// NewUserService initializes a new user service. notifier may be nil, in
// which case no welcome message is sent.
func NewUserService(repo repository.UserRepository, hasher Hasher, notifier Notifier, log *logrus.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, notifier: notifier, log: log}
}

// Create registers a new user with a hashed password
func (s *UserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	hashed, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, errors.Trace(err)
	}

	user := &models.User{
		Email:        params.Email,
		PasswordHash: hashed,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, errors.Trace(err)
	}

	s.log.Infof("User registered: %s", user.Email)
	if s.notifier != nil {
		if err := s.notifier.SendWelcome(user.Email, user.FirstName); err != nil {
			s.log.Warnf("Welcome email to %s not delivered: %v", user.Email, err)
		}
	}
	return user, nil
}

// FindAll returns every user
func (s *UserService) FindAll(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	return users, errors.Trace(err)
}

// FindOne returns the user with the given id
func (s *UserService) FindOne(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return user, nil
}

// FindByEmail returns the user registered with email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return user, nil
}

// Update applies a partial update. A new password is hashed before storing.
func (s *UserService) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if params.Password != nil {
		hashed, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return nil, errors.Trace(err)
		}
		user.PasswordHash = hashed
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Infof("User updated: %d", user.ID)
	return user, nil
}

// Remove deletes the user and returns its last known state
func (s *UserService) Remove(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Infof("User deleted: %d", id)
	return user, nil
}
