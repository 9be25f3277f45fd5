package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finmind/internal/domain/liability"
)

// LiabilityRepository implements the liability.Repository interface for PostgreSQL
type LiabilityRepository struct {
	db *DB
}

// NewLiabilityRepository creates a new PostgreSQL liability repository
func NewLiabilityRepository(db *DB) *LiabilityRepository {
	return &LiabilityRepository{db: db}
}

func (r *LiabilityRepository) Create(ctx context.Context, params liability.CreateParams) (*liability.Liability, error) {
	query := `
		INSERT INTO liabilities (id, owner_id, name, tag, value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, name, tag, value, created_at, updated_at
	`

	var l liability.Liability
	var tag sql.NullString

	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.OwnerID, params.Name, nullStringPtr(params.Tag), params.Value,
	).Scan(
		&l.ID, &l.OwnerID, &l.Name, &tag, &l.Value, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create liability: %w", err)
	}

	if tag.Valid {
		l.Tag = &tag.String
	}
	return &l, nil
}

func (r *LiabilityRepository) GetByID(ctx context.Context, id string) (*liability.Liability, error) {
	query := `
		SELECT id, owner_id, name, tag, value, created_at, updated_at
		FROM liabilities
		WHERE id = $1
	`

	var l liability.Liability
	var tag sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.OwnerID, &l.Name, &tag, &l.Value, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get liability: %w", err)
	}

	if tag.Valid {
		l.Tag = &tag.String
	}
	return &l, nil
}

func (r *LiabilityRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*liability.Liability, error) {
	query := `
		SELECT id, owner_id, name, tag, value, created_at, updated_at
		FROM liabilities
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*liability.Liability
	for rows.Next() {
		var l liability.Liability
		var tag sql.NullString

		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &tag, &l.Value, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		if tag.Valid {
			l.Tag = &tag.String
		}
		liabilities = append(liabilities, &l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liabilities: %w", err)
	}

	return liabilities, nil
}

func (r *LiabilityRepository) Update(ctx context.Context, id string, params liability.UpdateParams) (*liability.Liability, error) {
	query := `
		UPDATE liabilities
		SET name = COALESCE($2, name),
		    tag = COALESCE($3, tag),
		    value = COALESCE($4, value),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, owner_id, name, tag, value, created_at, updated_at
	`

	var l liability.Liability
	var tag sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, params.Name, params.Tag, params.Value).Scan(
		&l.ID, &l.OwnerID, &l.Name, &tag, &l.Value, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, liability.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update liability: %w", err)
	}

	if tag.Valid {
		l.Tag = &tag.String
	}
	return &l, nil
}

func (r *LiabilityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM liabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return liability.ErrNotFound
	}
	return nil
}
