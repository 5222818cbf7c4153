package projects

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

// Upsert is the insert-if-absent-return-existing primitive for projects.
// The DO UPDATE no-op forces RETURNING to yield the existing row on conflict.
func (r *PostgresRepository) Upsert(ctx context.Context, key NaturalKey) (*Project, error) {
	query := `
		INSERT INTO projects (name, contact, package)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, contact, package)
		DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, contact, package, created_at
	`

	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, key.Name, key.Contact, key.Package).
		Scan(&p.ID, &p.Name, &p.Contact, &p.Package, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Project) (*Project, error) {
	query := `
		INSERT INTO projects (name, contact, package, event_date,
			countdown_months, countdown_days, countdown_hours, countdown_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Contact, p.Package, p.EventDate,
		p.CountdownMonths, p.CountdownDays, p.CountdownHours, p.CountdownMinutes).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, name, contact, package, created_at,
			countdown_months, countdown_days, countdown_hours, countdown_minutes
		FROM projects WHERE id = $1
	`

	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Contact, &p.Package, &p.CreatedAt,
		&p.CountdownMonths, &p.CountdownDays, &p.CountdownHours, &p.CountdownMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
