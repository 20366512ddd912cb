package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/nicoshop/internal/db"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/samber/lo"
)

type favoriteRepository struct {
	q *db.Queries
}

func NewFavorite(pool *pgxpool.Pool) port.FavoriteRepository {
	return &favoriteRepository{
		q: db.New(pool),
	}
}

func (r *favoriteRepository) ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	rows, err := r.q.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("q.ListFavorites: %w", err)
	}

	return lo.Map(rows, func(row db.ListFavoritesRow, _ int) domain.Favorite {
		return domain.Favorite{
			ID:                 row.ID,
			UserID:             row.UserID,
			ProductID:          row.ProductID,
			CreatedAt:          row.CreatedAt,
			ProductName:        row.ProductName,
			ProductDescription: row.ProductDescription,
			ProductPrice:       row.ProductPrice,
			ProductImageURL:    row.ProductImageUrl,
		}
	}), nil
}

func (r *favoriteRepository) AddFavorite(ctx context.Context, userID, productID int64) (domain.Favorite, error) {
	row, err := r.q.InsertFavorite(ctx, userID, productID)
	if err != nil {
		fkErr := domain.ErrProductNotFound
		if strings.Contains(constraintName(err), "user_id") {
			fkErr = domain.ErrUserNotFound
		}
		return domain.Favorite{}, fmt.Errorf("q.InsertFavorite: %w", mapPgError(err, domain.ErrFavoriteExists, fkErr))
	}

	return domain.Favorite{
		ID:        row.ID,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *favoriteRepository) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	cmdTag, err := r.q.DeleteFavorite(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("q.DeleteFavorite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteFavorite: %w", domain.ErrFavoriteNotFound)
	}

	return nil
}
