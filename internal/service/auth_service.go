package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/nicoshop/internal/auth"
	"github.com/nikolayk812/nicoshop/internal/domain"
	"github.com/nikolayk812/nicoshop/internal/port"
	"github.com/samber/lo"
)

const minPasswordLength = 6

var validate = validator.New(validator.WithRequiredStructEnabled())


type AuthService struct {
	users  port.UserRepository
	tokens *auth.TokenIssuer
}

// Session is a signed token together with the user it was issued for.
type Session struct {
	Token string
	User  domain.User
}

// OAuthIdentity is a provider identity the client has already verified.
type OAuthIdentity struct {
	Email    string
	Name     string
	Provider string
	OAuthID  string
	Picture  string
}

func NewAuthService(users port.UserRepository, tokens *auth.TokenIssuer) (*AuthService, error) {
	if users == nil {
		return nil, errors.New("users is nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens is nil")
	}

	return &AuthService{users: users, tokens: tokens}, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (Session, error) {
	email = normalizeEmail(email)

	verr := &domain.ValidationError{}
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "is required")
	}
	if !validEmail(email) {
		verr.Add("email", "must be a valid email address")
	}
	if len(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if !verr.Empty() {
		return Session{}, verr
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("auth.HashPassword: %w", err)
	}

	userID, err := s.users.InsertUser(ctx, domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Status:       domain.UserStatusActive,
	})
	if err != nil {
		return Session{}, classify("users.InsertUser", err)
	}

	return s.sessionFor(ctx, userID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, classify("users.GetUserByEmail", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return Session{}, fmt.Errorf("auth.VerifyPassword: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	if !user.CanLogin() {
		return Session{}, fmt.Errorf("user[%d] %s: %w", user.ID, user.Status, ErrAccountDisabled)
	}

	return s.issue(user)
}

// OAuthLogin signs in a provider identity, linking it to an existing account by email
// or creating a customer without a password.
func (s *AuthService) OAuthLogin(ctx context.Context, identity OAuthIdentity) (Session, error) {
	identity.Email = normalizeEmail(identity.Email)

	verr := &domain.ValidationError{}
	if !validEmail(identity.Email) {
		verr.Add("email", "must be a valid email address")
	}
	if !lo.Contains(domain.OAuthProviders, identity.Provider) {
		verr.Add("provider", "must be one of "+strings.Join(domain.OAuthProviders, ", "))
	}
	if identity.OAuthID == "" {
		verr.Add("oauth_id", "is required")
	}
	if !verr.Empty() {
		return Session{}, verr
	}

	user, err := s.findOAuthUser(ctx, identity)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.createOAuthUser(ctx, identity)
	case err != nil:
		return Session{}, err
	}

	if !user.CanLogin() {
		return Session{}, fmt.Errorf("user[%d] %s: %w", user.ID, user.Status, ErrAccountDisabled)
	}

	changed := false
	if identity.Picture != "" && identity.Picture != user.Picture {
		user.Picture = identity.Picture
		changed = true
	}
	if user.OAuthID == "" {
		user.OAuthProvider = identity.Provider
		user.OAuthID = identity.OAuthID
		changed = true
	}

	if changed {
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return Session{}, classify("users.UpdateUser", err)
		}
	}

	return s.issue(user)
}

func (s *AuthService) findOAuthUser(ctx context.Context, identity OAuthIdentity) (domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, classify("users.GetUserByEmail", err)
	}

	user, err = s.users.GetUserByOAuth(ctx, identity.Provider, identity.OAuthID)
	if err != nil {
		return domain.User{}, classify("users.GetUserByOAuth", err)
	}

	return user, nil
}

func (s *AuthService) createOAuthUser(ctx context.Context, identity OAuthIdentity) (Session, error) {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}

	userID, err := s.users.InsertUser(ctx, domain.User{
		Name:          name,
		Email:         identity.Email,
		Role:          domain.RoleCustomer,
		Status:        domain.UserStatusActive,
		Picture:       identity.Picture,
		OAuthProvider: identity.Provider,
		OAuthID:       identity.OAuthID,
	})
	if err != nil {
		return Session{}, classify("users.InsertUser", err)
	}

	return s.sessionFor(ctx, userID)
}

func (s *AuthService) sessionFor(ctx context.Context, userID int64) (Session, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Session{}, classify("users.GetUser", err)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user domain.User) (Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("tokens.Issue: %w", err)
	}

	return Session{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
