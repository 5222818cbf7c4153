package images

import (
	"context"
	"fmt"

	"github.com/lumeshot/lumeshot/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertMany inserts one row per verified image. The UNIQUE constraint on
// storage_key plus a no-op DO UPDATE makes retried completion reports
// idempotent: an image persisted by an earlier attempt resolves to its
// existing row id instead of a duplicate, so every input gets an id.
func (r *PostgresRepository) InsertMany(ctx context.Context, imgs []*Image) ([]*Image, error) {
	query := `
		INSERT INTO images (category_id, project_id, storage_key, original_name, folder_path, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (storage_key) DO UPDATE SET storage_key = EXCLUDED.storage_key
		RETURNING id
	`

	for _, img := range imgs {
		err := r.db.QueryRowContext(ctx, query,
			img.CategoryID, img.ProjectID, img.StorageKey,
			img.OriginalName, img.FolderPath, img.Size, img.UploadedAt).
			Scan(&img.ID)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}

	return imgs, nil
}

func (r *PostgresRepository) GetByCategory(ctx context.Context, categoryID string) ([]*Image, error) {
	query := `
		SELECT id, category_id, project_id, storage_key, original_name, folder_path, size, uploaded_at
		FROM images
		WHERE category_id = $1
		ORDER BY uploaded_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*Image
	for rows.Next() {
		var item Image
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.ProjectID, &item.StorageKey,
			&item.OriginalName, &item.FolderPath, &item.Size, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
