package port

import (
	"context"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, userID, productID int64) (domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID int64) error
}
