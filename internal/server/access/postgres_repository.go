package access

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Upsert(ctx context.Context, g *Grant) (*Grant, error) {
	query := `
		INSERT INTO access_grants (client_user_id, email, role, granted_by)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid)
		ON CONFLICT (client_user_id, email)
		DO UPDATE SET email = EXCLUDED.email
		RETURNING id, client_user_id, email, role, granted_by, created_at
	`

	out := &Grant{}
	var grantedBy sql.NullString
	err := r.db.QueryRowContext(ctx, query,
		g.ClientUserID, strings.ToLower(strings.TrimSpace(g.Email)), g.Role, g.GrantedBy).
		Scan(&out.ID, &out.ClientUserID, &out.Email, &out.Role, &grantedBy, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	out.GrantedBy = grantedBy.String
	return out, nil
}

func (r *PostgresRepository) GetByClientUser(ctx context.Context, clientUserID string) ([]*Grant, error) {
	query := `
		SELECT id, client_user_id, email, role, granted_by, created_at
		FROM access_grants
		WHERE client_user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, clientUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to select access grants: %w", err)
	}
	defer rows.Close()

	var result []*Grant
	for rows.Next() {
		var item Grant
		var grantedBy sql.NullString
		if err := rows.Scan(&item.ID, &item.ClientUserID, &item.Email, &item.Role, &grantedBy, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.GrantedBy = grantedBy.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
