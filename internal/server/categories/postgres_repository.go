package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumeshot/lumeshot/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert is the insert-if-absent-return-existing primitive for categories.
// Multiple files of one batch mapping to the same leaf folder race here;
// the ON CONFLICT clause resolves the race inside the database, so no
// application-level locking is needed. The DO UPDATE no-op makes RETURNING
// yield the existing row instead of zero rows.
func (r *PostgresRepository) Upsert(ctx context.Context, projectID, title string, unlockThreshold int) (*Category, error) {
	query := `
		INSERT INTO categories (project_id, title, unlock_threshold)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, title)
		DO UPDATE SET title = EXCLUDED.title
		RETURNING id, project_id, title, unlock_threshold, created_at
	`

	c := &Category{}
	err := r.db.QueryRowContext(ctx, query, projectID, title, unlockThreshold).
		Scan(&c.ID, &c.ProjectID, &c.Title, &c.UnlockThreshold, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByProject(ctx context.Context, projectID string) ([]*Category, error) {
	query := `
		SELECT id, project_id, title, unlock_threshold, created_at
		FROM categories
		WHERE project_id = $1
		ORDER BY created_at, title
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []*Category
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.Title, &item.UnlockThreshold, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LinkImages claims the given images for the category. The image row is the
// single canonical home of the category-image relationship, so re-linking an
// already-linked id is a no-op rather than a duplicate.
func (r *PostgresRepository) LinkImages(ctx context.Context, categoryID string, imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(imageIDs))
	args := make([]any, 0, len(imageIDs)+1)
	args = append(args, categoryID)
	for i, id := range imageIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE images SET category_id = $1 WHERE id IN (%s)`,
		strings.Join(placeholders, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link images: %w", err)
	}
	return nil
}
