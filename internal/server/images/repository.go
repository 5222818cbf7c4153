package images

import "context"

type Repository interface {
	// InsertMany persists a batch of verified images and returns them with
	// assigned ids, preserving input order. A storage key that already has
	// a row resolves to the existing row's id rather than a duplicate
	// (retried completion reports are idempotent).
	InsertMany(ctx context.Context, imgs []*Image) ([]*Image, error)

	GetByCategory(ctx context.Context, categoryID string) ([]*Image, error)
}
