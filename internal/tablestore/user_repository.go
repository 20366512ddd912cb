package tablestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type userRepository struct {
	rdb *redis.Client
}

func NewUser(rdb *redis.Client) port.UserRepository {
	return &userRepository{rdb: rdb}
}

func (r *userRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	raw, err := r.rdb.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, fmt.Errorf("rdb.Get: %w", domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("rdb.Get: %w", err)
	}

	rec, err := decode[userRecord](raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("decode: %w", err)
	}

	return rec.toDomain(), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getByIndex(ctx, userEmailKey(email))
}

func (r *userRepository) GetUserByOAuth(ctx context.Context, provider, oauthID string) (domain.User, error) {
	if oauthID == "" {
		return domain.User{}, fmt.Errorf("oauthID is empty")
	}
	return r.getByIndex(ctx, userOAuthKey(provider, oauthID))
}

func (r *userRepository) getByIndex(ctx context.Context, indexKey string) (domain.User, error) {
	id, err := r.rdb.Get(ctx, indexKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, fmt.Errorf("rdb.Get[%s]: %w", indexKey, domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("rdb.Get[%s]: %w", indexKey, err)
	}

	return r.GetUser(ctx, id)
}

func (r *userRepository) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := r.listUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.listUsers: %w", err)
	}

	summaries := make([]domain.UserSummary, 0, len(users))
	for _, user := range users {
		orderIDs, err := r.rdb.ZRange(ctx, userOrdersKey(user.ID), 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("rdb.ZRange: %w", err)
		}

		spent := decimal.Zero
		for _, orderID := range orderIDs {
			raw, err := r.rdb.Get(ctx, orderKey(orderID)).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return nil, fmt.Errorf("rdb.Get: %w", err)
			}
			rec, err := decode[orderRecord](raw)
			if err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
			spent = spent.Add(rec.Total)
		}

		summaries = append(summaries, domain.UserSummary{
			User:        user,
			TotalOrders: len(orderIDs),
			TotalSpent:  spent,
		})
	}

	return summaries, nil
}

// listUsers returns users newest first.
func (r *userRepository) listUsers(ctx context.Context) ([]domain.User, error) {
	members, err := r.rdb.ZRevRange(ctx, keyUsers, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.ZRevRange: %w", err)
	}

	users := make([]domain.User, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseInt[%s]: %w", member, err)
		}

		user, err := r.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("r.GetUser: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int, error) {
	users, err := r.listUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.listUsers: %w", err)
	}

	return lo.CountBy(users, func(u domain.User) bool {
		return u.Role == domain.RoleAdmin
	}), nil
}

func (r *userRepository) InsertUser(ctx context.Context, user domain.User) (int64, error) {
	if user.Email == "" {
		return 0, fmt.Errorf("email is empty")
	}

	id, err := nextID(ctx, r.rdb, "users")
	if err != nil {
		return 0, err
	}

	// the email index doubles as the unique constraint
	ok, err := r.rdb.SetNX(ctx, userEmailKey(user.Email), id, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("rdb.SetNX: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("rdb.SetNX: %w", domain.ErrEmailTaken)
	}

	now := time.Now().UTC()
	user.ID = id
	user.Role = lo.CoalesceOrEmpty(user.Role, domain.RoleCustomer)
	user.Status = lo.CoalesceOrEmpty(user.Status, domain.UserStatusActive)
	user.CreatedAt = now
	user.UpdatedAt = now

	raw, err := encode(toUserRecord(user))
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(id), raw, 0)
		pipe.ZAdd(ctx, keyUsers, redis.Z{Score: float64(id), Member: id})
		if user.OAuthID != "" {
			pipe.Set(ctx, userOAuthKey(user.OAuthProvider, user.OAuthID), id, 0)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return id, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) error {
	existing, err := r.GetUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("r.GetUser: %w", err)
	}

	updated := existing
	updated.Name = user.Name
	updated.Role = user.Role
	updated.Status = user.Status
	updated.Picture = user.Picture
	updated.OAuthProvider = user.OAuthProvider
	updated.OAuthID = user.OAuthID
	updated.ShippingRegion = user.ShippingRegion
	updated.UpdatedAt = time.Now().UTC()

	raw, err := encode(toUserRecord(updated))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetXX(ctx, userKey(user.ID), raw, redis.KeepTTL)
		if existing.OAuthID != "" && (existing.OAuthID != updated.OAuthID || existing.OAuthProvider != updated.OAuthProvider) {
			pipe.Del(ctx, userOAuthKey(existing.OAuthProvider, existing.OAuthID))
		}
		if updated.OAuthID != "" {
			pipe.Set(ctx, userOAuthKey(updated.OAuthProvider, updated.OAuthID), user.ID, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	existing, err := r.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("r.GetUser: %w", err)
	}

	orders, err := r.rdb.ZCard(ctx, userOrdersKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("rdb.ZCard: %w", err)
	}
	if orders > 0 {
		return fmt.Errorf("rdb.ZCard: %w", domain.ErrUserHasOrders)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey(userID), userEmailKey(existing.Email), favoritesKey(userID))
		pipe.ZRem(ctx, keyUsers, userID)
		if existing.OAuthID != "" {
			pipe.Del(ctx, userOAuthKey(existing.OAuthProvider, existing.OAuthID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined: %w", err)
	}

	return nil
}
