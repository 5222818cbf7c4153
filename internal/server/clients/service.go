package clients

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/server/access"
	"github.com/lumeshot/lumeshot/internal/server/auth"
	"github.com/lumeshot/lumeshot/internal/server/config"
)

type Service struct {
	repo                        Repository
	accessRepo                  access.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, accessRepo access.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		accessRepo:                  accessRepo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// PinDigest returns the deterministic digest a PIN is stored and looked up
// by. SHA-256, not bcrypt: sign-in carries no username, so the row must be
// findable from the PIN alone.
func PinDigest(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// Register creates the client account for a project. An empty pin asks for
// a generated one; the plaintext pin is returned exactly once, only the
// digest is stored.
func (s *Service) Register(ctx context.Context, projectID, pin string) (*ClientUser, string, error) {
	if projectID == "" {
		return nil, "", fmt.Errorf("%w: project id is required", common.ErrValidation)
	}
	if pin == "" {
		generated, err := common.MakeRandHexString(3)
		if err != nil {
			return nil, "", common.ErrInternal
		}
		pin = generated
	}

	user := &ClientUser{
		ProjectID: projectID,
		PinDigest: PinDigest(pin),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("error creating client user: %w", err)
	}

	return user, pin, nil
}

// Signin authenticates a client by PIN and returns a signed token plus the
// matched account.
func (s *Service) Signin(ctx context.Context, pin string) (string, *ClientUser, error) {
	if pin == "" {
		return "", nil, common.ErrUnauthorized
	}

	user, err := s.repo.GetByPinDigest(ctx, PinDigest(pin))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrUnauthorized
		}
		return "", nil, common.ErrInternal
	}

	token, err := auth.GenerateToken(user.ID, auth.RoleClient, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrInternal
	}

	return token, user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ClientUser, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordInteractions stores the client's image selections for one category.
// Replays are harmless: the interaction set is keyed on (client, category,
// image).
func (s *Service) RecordInteractions(ctx context.Context, clientUserID, categoryID string, imageIDs []string) error {
	if clientUserID == "" || categoryID == "" {
		return fmt.Errorf("%w: client and category ids are required", common.ErrValidation)
	}
	if len(imageIDs) == 0 {
		return nil
	}

	items := make([]*Interaction, 0, len(imageIDs))
	for _, id := range imageIDs {
		items = append(items, &Interaction{
			ClientUserID: clientUserID,
			CategoryID:   categoryID,
			ImageID:      id,
		})
	}
	return s.repo.RecordInteractions(ctx, items)
}

// InteractionCounts returns the distinct image count per category for the
// client. Categories with no interactions are absent from the map.
func (s *Service) InteractionCounts(ctx context.Context, clientUserID string) (map[string]int, error) {
	return s.repo.CountInteractions(ctx, clientUserID)
}

// GrantAccess adds an email to the client's access list. Granting the same
// email twice returns the existing grant.
func (s *Service) GrantAccess(ctx context.Context, clientUserID, email, role, grantedBy string) (*access.Grant, error) {
	if clientUserID == "" || email == "" {
		return nil, fmt.Errorf("%w: client id and email are required", common.ErrValidation)
	}
	if role == "" {
		role = access.RoleViewer
	}

	return s.accessRepo.Upsert(ctx, &access.Grant{
		ClientUserID: clientUserID,
		Email:        email,
		Role:         role,
		GrantedBy:    grantedBy,
	})
}

func (s *Service) ListAccess(ctx context.Context, clientUserID string) ([]*access.Grant, error) {
	return s.accessRepo.GetByClientUser(ctx, clientUserID)
}
