package access

import "context"

type Repository interface {
	// Upsert adds the grant if the email is not yet on the client's access
	// list, otherwise returns the existing grant unchanged.
	Upsert(ctx context.Context, g *Grant) (*Grant, error)

	GetByClientUser(ctx context.Context, clientUserID string) ([]*Grant, error)
}
