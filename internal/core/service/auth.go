package service

import (
	"context"
	"errors"
	"log/slog"

	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/util"
	"shopcatalog/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	users port.UserRepository
}

func NewAuthService(users port.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (as *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	if len(password) < 8 {
		return domain.User{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "password", Message: "must be at least 8 characters"},
		}}
	}

	if _, err := as.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "email", Message: "already exists"},
		}}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	encrypted, err := util.GenerateEncrypt(password)

	if err != nil {
		return domain.User{}, err
	}

	user, err := as.users.Create(ctx, domain.User{
		Name:              name,
		Email:             email,
		EncryptedPassword: encrypted,
	})

	if err != nil {
		slog.Error("User registration failed", "error", err, "email", email)
		return domain.User{}, err
	}

	return user, nil
}

// Authenticate verifies credentials and returns the user with a signed
// access token.
func (as *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := as.users.GetByEmail(ctx, email)

	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", ErrInvalidCredentials
	}

	if err != nil {
		return domain.User{}, "", err
	}

	if err := util.ComparePassword(password, user.EncryptedPassword); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.CreateJwtTokenForUser(user.ID, string(user.Role))

	if err != nil {
		return domain.User{}, "", err
	}

	return user, token, nil
}

var _ port.AuthService = (*AuthService)(nil)
