package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/auth"
	"github.com/lumeshot/lumeshot/internal/server/config"
)

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an admin account identified by a shared password only.
// Photographers run a single-tenant install, so there is no username and
// registration is a one-time bootstrap: once an admin exists, further
// registrations are refused.
func (s *Service) Register(ctx context.Context, password string) (*AdminUser, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}
	if len(existing) > 0 {
		return nil, common.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &AdminUser{
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating admin: %w", err)
	}

	return user, nil
}

// Login matches the password against every stored admin hash and returns a
// signed token for the matching account. Passwords are bcrypt hashes, so the
// lookup cannot be keyed on the credential itself.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", common.ErrUnauthorized
	}

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	for _, u := range users {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			token, err := auth.GenerateToken(u.ID, auth.RoleAdmin, s.jwtSecret, s.accessTokenValidityDuration)
			if err != nil {
				return "", common.ErrInternal
			}
			return token, nil
		}
	}

	return "", common.ErrUnauthorized
}
