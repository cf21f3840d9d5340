// Package service holds the business rules behind each route. Services
// return *models.AppError values carrying the client-facing message.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgUserNotFound       = "User not found"
	MsgPasswordTooLong    = "Please enter a password with 72 or fewer characters"
)

// TokenIssuer signs a session token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type UserService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates the account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", models.NewValidationError(MsgUserExists)
	case !errors.Is(err, repository.ErrNotFound):
		return "", models.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.NewValidationError(MsgPasswordTooLong)
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Avatar:   auth.GravatarURL(email),
		Date:     time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", models.NewValidationError(MsgUserExists)
		}
		return "", models.NewInternalError(err)
	}
	observability.RegistrationsTotal.Inc()

	return s.issue(user.ID)
}

// Login checks the credentials and returns a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			return "", models.NewValidationError(MsgInvalidCredentials)
		}
		return "", models.NewInternalError(err)
	}

	if !auth.CheckPassword(user.Password, password) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return "", models.NewValidationError(MsgInvalidCredentials)
	}
	observability.LoginsTotal.WithLabelValues("success").Inc()

	return s.issue(user.ID)
}

// CurrentUser loads the account behind an authenticated request.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isMissing(err) {
			return nil, models.NewNotFoundError(MsgUserNotFound)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (s *UserService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// isMissing reports whether err means the addressed record does not exist.
// Malformed identifiers are treated the same way.
func isMissing(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID)
}
