package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/db"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/samber/lo"
)

type userRepository struct {
	q *db.Queries
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{
		q: db.New(pool),
	}
}

func (r *userRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	dbUser, err := r.q.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("q.GetUser: %w", mapNoRows(err, domain.ErrUserNotFound))
	}

	return mapDBUserToDomain(dbUser), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	dbUser, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("q.GetUserByEmail: %w", mapNoRows(err, domain.ErrUserNotFound))
	}

	return mapDBUserToDomain(dbUser), nil
}

func (r *userRepository) GetUserByOAuth(ctx context.Context, provider, oauthID string) (domain.User, error) {
	if oauthID == "" {
		return domain.User{}, fmt.Errorf("oauthID is empty")
	}

	dbUser, err := r.q.GetUserByOAuth(ctx, provider, oauthID)
	if err != nil {
		return domain.User{}, fmt.Errorf("q.GetUserByOAuth: %w", mapNoRows(err, domain.ErrUserNotFound))
	}

	return mapDBUserToDomain(dbUser), nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	rows, err := r.q.ListUsersWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListUsersWithStats: %w", err)
	}

	return lo.Map(rows, func(row db.ListUsersWithStatsRow, _ int) domain.UserSummary {
		return domain.UserSummary{
			User:        mapDBUserToDomain(row.User),
			TotalOrders: int(row.TotalOrders),
			TotalSpent:  row.TotalSpent,
		}
	}), nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int, error) {
	count, err := r.q.CountAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("q.CountAdmins: %w", err)
	}
	return int(count), nil
}

func (r *userRepository) InsertUser(ctx context.Context, user domain.User) (int64, error) {
	if user.Email == "" {
		return 0, fmt.Errorf("email is empty")
	}

	row, err := r.q.InsertUser(ctx, db.InsertUserParams{
		Name:           user.Name,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		Role:           string(lo.CoalesceOrEmpty(user.Role, domain.RoleCustomer)),
		Status:         string(lo.CoalesceOrEmpty(user.Status, domain.UserStatusActive)),
		Picture:        user.Picture,
		OauthProvider:  user.OAuthProvider,
		OauthID:        user.OAuthID,
		ShippingRegion: user.ShippingRegion,
	})
	if err != nil {
		return 0, fmt.Errorf("q.InsertUser: %w", mapPgError(err, domain.ErrEmailTaken, nil))
	}

	return row.ID, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) error {
	_, err := r.q.UpdateUser(ctx, db.UpdateUserParams{
		ID:             user.ID,
		Name:           user.Name,
		Role:           string(user.Role),
		Status:         string(user.Status),
		Picture:        user.Picture,
		OauthProvider:  user.OAuthProvider,
		OauthID:        user.OAuthID,
		ShippingRegion: user.ShippingRegion,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateUser: %w", mapNoRows(err, domain.ErrUserNotFound))
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	cmdTag, err := r.q.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("q.DeleteUser: %w", mapPgError(err, nil, domain.ErrUserHasOrders))
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteUser: %w", domain.ErrUserNotFound)
	}

	return nil
}

func mapDBUserToDomain(u db.User) domain.User {
	return domain.User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           domain.Role(u.Role),
		Status:         domain.UserStatus(u.Status),
		Picture:        u.Picture,
		OAuthProvider:  u.OauthProvider,
		OAuthID:        u.OauthID,
		ShippingRegion: u.ShippingRegion,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func mapNoRows(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
