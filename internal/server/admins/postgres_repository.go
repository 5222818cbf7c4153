package admins

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

func (r *PostgresRepository) Create(ctx context.Context, u *AdminUser) (*AdminUser, error) {
	query := `
		INSERT INTO admin_users (password_hash, role)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]*AdminUser, error) {
	query := `SELECT id, password_hash, role, created_at FROM admin_users`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select admin users: %w", err)
	}
	defer rows.Close()

	var result []*AdminUser
	for rows.Next() {
		var item AdminUser
		if err := rows.Scan(&item.ID, &item.PasswordHash, &item.Role, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
