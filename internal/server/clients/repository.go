package clients

import "context"

type Repository interface {
	Create(ctx context.Context, u *ClientUser) (*ClientUser, error)
	GetByPinDigest(ctx context.Context, digest string) (*ClientUser, error)
	GetByID(ctx context.Context, id string) (*ClientUser, error)

	// RecordInteractions inserts the given interactions, ignoring ones
	// already recorded (set semantics on the composite key).
	RecordInteractions(ctx context.Context, items []*Interaction) error

	// CountInteractions returns the number of distinct images the user has
	// interacted with, per category.
	CountInteractions(ctx context.Context, clientUserID string) (map[string]int, error)
}
