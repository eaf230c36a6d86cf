package service

import (
	"context"
	"errors"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/user"
	"kids-carpool/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrEmailTaken     = fmt.Errorf("%w: email is already registered", carpool.ErrValidation)
	ErrWeakPassword   = fmt.Errorf("%w: password must be at least 8 characters", carpool.ErrValidation)
	ErrBadCredentials = fmt.Errorf("%w: invalid email or password", carpool.ErrUnauthorized)
)

// Register creates a PARENT account and returns a signed access token.
func (service *directoryService) Register(ctx context.Context, in ports.RegisterInput) (ports.AuthResult, error) {
	if len(in.Password) < minPasswordLength {
		return ports.AuthResult{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.NewUser(in.Email, in.FullName, in.Phone, string(hash), user.RoleParent)
	if err != nil {
		return ports.AuthResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		_, err := service.userRepo.GetByEmail(txCtx, u.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, carpool.ErrNotFound) {
			return err
		}

		return service.userRepo.Create(txCtx, u)
	})
	if err != nil {
		service.logger.Error(ctx, "register_failed", "Failed to register user", err, map[string]any{
			"email": u.Email,
		})
		return ports.AuthResult{}, err
	}

	token, _, err := service.tokens.IssueUserToken(u.ID, u.Role)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	service.logger.Info(ctx, "user_registered", fmt.Sprintf("User %s registered", u.ID), map[string]any{
		"user_id": u.ID,
		"role":    u.Role.String(),
	})

	u.PasswordHash = ""
	return ports.AuthResult{Token: token, User: u}, nil
}

// Login verifies credentials and returns a signed access token.
func (service *directoryService) Login(ctx context.Context, email, password string) (ports.AuthResult, error) {
	var u *user.User
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		u, err = service.userRepo.GetByEmail(txCtx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, carpool.ErrNotFound) {
			return ports.AuthResult{}, ErrBadCredentials
		}
		return ports.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ports.AuthResult{}, ErrBadCredentials
	}

	token, _, err := service.tokens.IssueUserToken(u.ID, u.Role)
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	service.logger.Info(ctx, "user_logged_in", fmt.Sprintf("User %s logged in", u.ID), map[string]any{
		"user_id": u.ID,
	})

	u.PasswordHash = ""
	return ports.AuthResult{Token: token, User: u}, nil
}

// GetUser loads a user profile without its password hash.
func (service *directoryService) GetUser(ctx context.Context, userID string) (*user.User, error) {
	var u *user.User
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		u, err = service.userRepo.GetByID(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return u, nil
}
