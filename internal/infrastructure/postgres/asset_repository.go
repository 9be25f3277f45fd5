package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finmind/internal/domain/asset"
)

// AssetRepository implements the asset.Repository interface for PostgreSQL
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new PostgreSQL asset repository
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create creates a new asset
func (r *AssetRepository) Create(ctx context.Context, params asset.CreateParams) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (id, owner_id, name, tag, value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, name, tag, value, created_at, updated_at
	`

	var a asset.Asset
	var tag sql.NullString

	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.OwnerID, params.Name, nullStringPtr(params.Tag), params.Value,
	).Scan(
		&a.ID, &a.OwnerID, &a.Name, &tag, &a.Value, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	if tag.Valid {
		a.Tag = &tag.String
	}
	return &a, nil
}

// GetByID retrieves an asset by its ID
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	query := `
		SELECT id, owner_id, name, tag, value, created_at, updated_at
		FROM assets
		WHERE id = $1
	`

	var a asset.Asset
	var tag sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.Name, &tag, &a.Value, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if tag.Valid {
		a.Tag = &tag.String
	}
	return &a, nil
}

// ListByOwnerID retrieves all assets for a specific owner
func (r *AssetRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*asset.Asset, error) {
	query := `
		SELECT id, owner_id, name, tag, value, created_at, updated_at
		FROM assets
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		var a asset.Asset
		var tag sql.NullString

		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &tag, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if tag.Valid {
			a.Tag = &tag.String
		}
		assets = append(assets, &a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// Update applies the non-nil fields of params to an asset
func (r *AssetRepository) Update(ctx context.Context, id string, params asset.UpdateParams) (*asset.Asset, error) {
	query := `
		UPDATE assets
		SET name = COALESCE($2, name),
		    tag = COALESCE($3, tag),
		    value = COALESCE($4, value),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, owner_id, name, tag, value, created_at, updated_at
	`

	var a asset.Asset
	var tag sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, params.Name, params.Tag, params.Value).Scan(
		&a.ID, &a.OwnerID, &a.Name, &tag, &a.Value, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, asset.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	if tag.Valid {
		a.Tag = &tag.String
	}
	return &a, nil
}

// Delete removes an asset
func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return asset.ErrNotFound
	}
	return nil
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
