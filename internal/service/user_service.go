package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
)

type UserService struct {
	users port.UserRepository
}

func NewUserService(users port.UserRepository) (*UserService, error) {
	if users == nil {
		return nil, errors.New("users is nil")
	}

	return &UserService{users: users}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, classify("users.ListUsers", err)
	}

	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, classify("users.GetUser", err)
	}

	return user, nil
}

func (s *UserService) UpdateUserStatus(ctx context.Context, userID int64, status string) (domain.User, error) {
	userStatus, err := domain.ToUserStatus(status)
	if err != nil {
		return domain.User{}, domain.NewValidationError("status", err.Error())
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	user.Status = userStatus
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, classify("users.UpdateUser", err)
	}

	return s.GetUser(ctx, userID)
}

// DeleteUser refuses to remove the last admin and users that still own orders.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return classify("users.CountAdmins", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return classify("users.DeleteUser", err)
	}

	return nil
}

func (s *UserService) UpdateShippingRegion(ctx context.Context, identity domain.Identity, region string) (domain.User, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return domain.User{}, domain.NewValidationError("shipping_region", "is required")
	}

	user, err := s.GetUser(ctx, identity.UserID)
	if err != nil {
		return domain.User{}, err
	}

	user.ShippingRegion = region
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, classify("users.UpdateUser", err)
	}

	return user, nil
}
