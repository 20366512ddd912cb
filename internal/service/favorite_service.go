package service

import (
	"context"
	"errors"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
)

type FavoriteService struct {
	favorites port.FavoriteRepository
}

func NewFavoriteService(favorites port.FavoriteRepository) (*FavoriteService, error) {
	if favorites == nil {
		return nil, errors.New("favorites is nil")
	}

	return &FavoriteService{favorites: favorites}, nil
}

func (s *FavoriteService) ListFavorites(ctx context.Context, identity domain.Identity) ([]domain.Favorite, error) {
	favorites, err := s.favorites.ListFavorites(ctx, identity.UserID)
	if err != nil {
		return nil, classify("favorites.ListFavorites", err)
	}

	return favorites, nil
}

func (s *FavoriteService) AddFavorite(ctx context.Context, identity domain.Identity, productID int64) (domain.Favorite, error) {
	if productID <= 0 {
		return domain.Favorite{}, domain.NewValidationError("product_id", "must be a positive product id")
	}

	favorite, err := s.favorites.AddFavorite(ctx, identity.UserID, productID)
	if err != nil {
		return domain.Favorite{}, classify("favorites.AddFavorite", err)
	}

	return favorite, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, identity domain.Identity, productID int64) error {
	if err := s.favorites.RemoveFavorite(ctx, identity.UserID, productID); err != nil {
		return classify("favorites.RemoveFavorite", err)
	}

	return nil
}
