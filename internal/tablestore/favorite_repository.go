package tablestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/redis/go-redis/v9"
)

type favoriteRepository struct {
	rdb      *redis.Client
	products port.ProductRepository
}

func NewFavorite(rdb *redis.Client) port.FavoriteRepository {
	return &favoriteRepository{
		rdb:      rdb,
		products: NewProduct(rdb),
	}
}

// ListFavorites skips entries whose product is gone, like the inner join of the SQL backend.
func (r *favoriteRepository) ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	entries, err := r.rdb.HGetAll(ctx, favoritesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.HGetAll: %w", err)
	}

	favorites := make([]domain.Favorite, 0, len(entries))
	for field, raw := range entries {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseInt[%s]: %w", field, err)
		}

		rec, err := decode[favoriteRecord](raw)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		product, err := r.products.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("products.GetProduct: %w", err)
		}

		favorites = append(favorites, domain.Favorite{
			ID:                 rec.ID,
			UserID:             userID,
			ProductID:          productID,
			CreatedAt:          rec.CreatedAt,
			ProductName:        product.Name,
			ProductDescription: product.Description,
			ProductPrice:       product.Price,
			ProductImageURL:    product.ImageURL,
		})
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].ID > favorites[j].ID
	})

	return favorites, nil
}

func (r *favoriteRepository) AddFavorite(ctx context.Context, userID, productID int64) (domain.Favorite, error) {
	exists, err := r.rdb.Exists(ctx, productKey(productID)).Result()
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("rdb.Exists: %w", err)
	}
	if exists == 0 {
		return domain.Favorite{}, fmt.Errorf("rdb.Exists: %w", domain.ErrProductNotFound)
	}

	id, err := nextID(ctx, r.rdb, "favorites")
	if err != nil {
		return domain.Favorite{}, err
	}

	rec := favoriteRecord{ID: id, CreatedAt: time.Now().UTC()}

	raw, err := encode(rec)
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("encode: %w", err)
	}

	ok, err := r.rdb.HSetNX(ctx, favoritesKey(userID), strconv.FormatInt(productID, 10), raw).Result()
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("rdb.HSetNX: %w", err)
	}
	if !ok {
		return domain.Favorite{}, fmt.Errorf("rdb.HSetNX: %w", domain.ErrFavoriteExists)
	}

	return domain.Favorite{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (r *favoriteRepository) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	removed, err := r.rdb.HDel(ctx, favoritesKey(userID), strconv.FormatInt(productID, 10)).Result()
	if err != nil {
		return fmt.Errorf("rdb.HDel: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("rdb.HDel: %w", domain.ErrFavoriteNotFound)
	}

	return nil
}
