package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByOAuth(ctx context.Context, provider, oauthID string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
	CountAdmins(ctx context.Context) (int, error)

	InsertUser(ctx context.Context, user domain.User) (int64, error)
	// UpdateUser overwrites the mutable profile fields. Email and password hash are left alone.
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, userID int64) error
}
