package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"todolist/internal/domain"
	"todolist/internal/keycloak"
	"todolist/internal/repository"
)

// RegisterInput carries the data needed to register a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService wraps user-related business logic.
type UserService struct {
	users    *repository.UserRepository
	identity *keycloak.Client
}

func NewUserService(users *repository.UserRepository, identity *keycloak.Client) *UserService {
	return &UserService{users: users, identity: identity}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// Get returns the user or repository.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Add creates a user directly, rejecting a duplicate username before the
// insert so a conflict never mutates the store.
func (s *UserService) Add(ctx context.Context, user *domain.User) error {
	_, err := s.users.FindByUsername(ctx, user.Username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}
	return s.users.Create(ctx, user)
}

// Update persists the caller-supplied fields verbatim; the target must exist.
func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	if _, err := s.users.FindByID(ctx, user.ID); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// Delete removes a user and its activities; absent ids are a no-op.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}

// Login validates the credentials and returns the stored user record.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.Validate(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// Register creates the account at the identity provider first, then
// mirrors it into the local store. When the local insert fails, the remote
// account is deleted again so the two stores do not drift apart; if that
// rollback fails as well, ErrCompensationFailed reports the orphan.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	token, err := s.identity.AdminToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteRegistration, err)
	}
	remoteID, err := s.identity.CreateUser(ctx, token, keycloak.UserRepresentation{
		Username:  input.Username,
		Email:     input.Email,
		Enabled:   true,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Credentials: []keycloak.Credential{
			{Type: "password", Value: input.Password, Temporary: false},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteRegistration, err)
	}

	// The credential lives at the identity provider only; the local row
	// carries no password.
	user := &domain.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := s.users.CreateLocal(ctx, user); err != nil {
		if rbErr := s.identity.DeleteUser(ctx, token, remoteID); rbErr != nil {
			logrus.WithFields(logrus.Fields{
				"username":  input.Username,
				"remote_id": remoteID,
				"error":     rbErr.Error(),
			}).Error("Registration rollback failed")
			return nil, fmt.Errorf("%w: %v", ErrCompensationFailed, err)
		}
		return nil, err
	}
	return user, nil
}
