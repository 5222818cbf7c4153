package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lumeshot/lumeshot/internal/common"
	"github.com/lumeshot/lumeshot/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *ClientUser) (*ClientUser, error) {
	query := `
		INSERT INTO client_users (project_id, pin_digest)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, u.ProjectID, u.PinDigest).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByPinDigest(ctx context.Context, digest string) (*ClientUser, error) {
	query := `
		SELECT id, project_id, pin_digest, created_at
		FROM client_users WHERE pin_digest = $1
	`

	u := &ClientUser{}
	err := r.db.QueryRowContext(ctx, query, digest).Scan(&u.ID, &u.ProjectID, &u.PinDigest, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*ClientUser, error) {
	query := `
		SELECT id, project_id, pin_digest, created_at
		FROM client_users WHERE id = $1
	`

	u := &ClientUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.ProjectID, &u.PinDigest, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) RecordInteractions(ctx context.Context, items []*Interaction) error {
	query := `
		INSERT INTO interactions (client_user_id, category_id, image_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_user_id, category_id, image_id) DO NOTHING
	`

	for _, it := range items {
		if _, err := r.db.ExecContext(ctx, query, it.ClientUserID, it.CategoryID, it.ImageID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CountInteractions(ctx context.Context, clientUserID string) (map[string]int, error) {
	query := `
		SELECT category_id, count(DISTINCT image_id)
		FROM interactions
		WHERE client_user_id = $1
		GROUP BY category_id
	`

	rows, err := r.db.QueryContext(ctx, query, clientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var categoryID string
		var count int
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, err
		}
		result[categoryID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
