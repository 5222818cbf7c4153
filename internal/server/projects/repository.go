package projects

import (
	"context"
)

type Repository interface {
	// Upsert resolves the project for the given natural key, creating it if
	// absent. Atomic: concurrent calls with the same key return the same row.
	Upsert(ctx context.Context, key NaturalKey) (*Project, error)

	// Create inserts a fully-specified project (explicit creation call).
	Create(ctx context.Context, p *Project) (*Project, error)

	GetByID(ctx context.Context, id string) (*Project, error)
}
