package steps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/nikolayk812/nicoshop/internal/auth"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
)

type seedAdminStep struct {
	users    port.UserRepository
	email    string
	password string
}

// NewSeedAdmin creates the admin account unless a user with that email already exists.
func NewSeedAdmin(users port.UserRepository, email, password string) (Step, error) {
	if users == nil {
		return nil, fmt.Errorf("users is nil")
	}
	if email == "" {
		return nil, fmt.Errorf("email is empty")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password is shorter than 6 characters")
	}

	return &seedAdminStep{
		users:    users,
		email:    email,
		password: password,
	}, nil
}

func (s *seedAdminStep) Name() string {
	return "seed_admin"
}

func (s *seedAdminStep) Run(ctx context.Context, dataCtx DataContext) error {
	existing, err := s.users.GetUserByEmail(ctx, s.email)
	switch {
	case err == nil:
		dataCtx[AdminUserIDKey] = strconv.FormatInt(existing.ID, 10)
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("users.GetUserByEmail: %w", err)
	}

	hash, err := auth.HashPassword(s.password)
	if err != nil {
		return fmt.Errorf("auth.HashPassword: %w", err)
	}

	id, err := s.users.InsertUser(ctx, domain.User{
		Name:         "Administrator",
		Email:        s.email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	})
	if err != nil {
		return fmt.Errorf("users.InsertUser: %w", err)
	}

	dataCtx[AdminUserIDKey] = strconv.FormatInt(id, 10)

	slog.Info("admin user created", "method", "seedAdminStep.Run", "user_id", id)

	return nil
}
