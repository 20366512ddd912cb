package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Status         UserStatus
	Picture        string
	OAuthProvider  string
	OAuthID        string
	ShippingRegion string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the admin listing row.
type UserSummary struct {
	User
	TotalOrders int
	TotalSpent  decimal.Decimal
}

func (u User) CanLogin() bool {
	return u.Status == UserStatusActive || u.Status == ""
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func ToRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleAdmin:
		return Role(s), nil
	}
	return "", errors.New("invalid role")
}

type UserStatus string

// remember to add new statuses to the validUserStatuses map
const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

var validUserStatuses = map[UserStatus]struct{}{
	UserStatusActive:    {},
	UserStatusSuspended: {},
	UserStatusBanned:    {},
}

func ToUserStatus(s string) (UserStatus, error) {
	status := UserStatus(s)
	if _, ok := validUserStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid user status")
}

// OAuthProviders accepted by the oauth login.
var OAuthProviders = []string{"google", "facebook"}
