package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finmind/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, owner_id, title, category, kind, amount, occurred_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_id, title, category, kind, amount, occurred_on, created_at, updated_at
	`

	var occurredOn sql.NullTime
	if !params.OccurredOn.IsZero() {
		occurredOn = sql.NullTime{Time: params.OccurredOn, Valid: true}
	}

	row := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.OwnerID, params.Title, nullStringPtr(params.Category),
		params.Kind, params.Amount, occurredOn,
	)
	t, err := scanTransactionRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT id, owner_id, title, category, kind, amount, occurred_on, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	t, err := scanTransactionRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListByOwnerID retrieves up to limit transactions for an owner, most recent first
func (r *TransactionRepository) ListByOwnerID(ctx context.Context, ownerID int64, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, owner_id, title, category, kind, amount, occurred_on, created_at, updated_at
		FROM transactions
		WHERE owner_id = $1
		ORDER BY COALESCE(occurred_on, created_at) DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		var category sql.NullString
		var occurredOn sql.NullTime

		err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &category, &t.Kind, &t.Amount,
			&occurredOn, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if category.Valid {
			t.Category = &category.String
		}
		if occurredOn.Valid {
			t.OccurredOn = occurredOn.Time
		}
		transactions = append(transactions, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// Update applies the non-nil fields of params to a transaction
func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET title = COALESCE($2, title),
		    category = COALESCE($3, category),
		    kind = COALESCE($4, kind),
		    amount = COALESCE($5, amount),
		    occurred_on = COALESCE($6, occurred_on),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, owner_id, title, category, kind, amount, occurred_on, created_at, updated_at
	`

	var kind *string
	if params.Kind != nil {
		k := string(*params.Kind)
		kind = &k
	}

	row := r.db.QueryRowContext(ctx, query, id, params.Title, params.Category, kind, params.Amount, params.OccurredOn)
	t, err := scanTransactionRow(row)
	if err == sql.ErrNoRows {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrNotFound
	}
	return nil
}

func scanTransactionRow(row *tracedRow) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var category sql.NullString
	var occurredOn sql.NullTime

	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &category, &t.Kind, &t.Amount,
		&occurredOn, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		t.Category = &category.String
	}
	if occurredOn.Valid {
		t.OccurredOn = occurredOn.Time
	}
	return &t, nil
}
