package categories

import "context"

type Repository interface {
	// Upsert creates the category for (projectID, title) if absent and
	// returns the row either way. Must be atomic: concurrent calls for the
	// same title must resolve to a single row, never a duplicate-key failure.
	Upsert(ctx context.Context, projectID, title string, unlockThreshold int) (*Category, error)

	GetByProject(ctx context.Context, projectID string) ([]*Category, error)

	// LinkImages appends image ids to the category's image set.
	// Duplicate-safe: ids already linked are ignored.
	LinkImages(ctx context.Context, categoryID string, imageIDs []string) error
}
