package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

// AuthService implements signup and administrator provisioning.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, log: log}
}

// Register creates a regular user account. All validation happens before the
// store is touched, and the existence check happens before hashing.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if domain.IsReservedUsername(username) {
		return nil, domain.NewValidationError("username", "this username is reserved")
	}
	if password != confirmPassword {
		return nil, domain.NewValidationError("confirmPassword", "passwords do not match")
	}

	if _, err := s.users.FindByID(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.create(ctx, username, password, domain.NewRoleSet(domain.RoleUser))
}

// ProvisionAdmin creates the reserved administrator account. It is meant for
// out-of-band use (the admin CLI), never for the signup form.
func (s *AuthService) ProvisionAdmin(ctx context.Context, password string) (*domain.User, error) {
	if err := validateCredentials(domain.ReservedUsername, password); err != nil {
		return nil, err
	}
	return s.create(ctx, domain.ReservedUsername, password, domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin))
}

func (s *AuthService) create(ctx context.Context, username, password string, roles domain.RoleSet) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           username,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user", username).Strs("roles", roles.Strings()).Msg("user registered")
	return user, nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return domain.NewValidationError("username", "username is required")
	case password == "":
		return domain.NewValidationError("password", "password is required")
	case containsSpace(username):
		return domain.NewValidationError("username", "username must not contain spaces")
	case containsSpace(password):
		return domain.NewValidationError("password", "password must not contain spaces")
	case len(password) > maxPasswordBytes:
		return domain.NewValidationError("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
