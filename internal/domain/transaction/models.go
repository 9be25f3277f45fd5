package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Domain errors
var (
	ErrNotFound    = errors.New("transaction not found")
	ErrForbidden   = errors.New("access forbidden")
	ErrInvalidKind = errors.New("kind must be income or expense")
	// ErrSignMismatch is returned when the amount sign contradicts the
	// kind: income amounts must be >= 0, expense amounts must be <= 0.
	ErrSignMismatch = errors.New("amount sign does not match transaction kind")
)

// Transaction represents a single dated money flow.
type Transaction struct {
	ID       string          `json:"id"`
	OwnerID  int64           `json:"ownerId"`
	Title    string          `json:"title"`
	Category *string         `json:"category,omitempty"`
	Kind     Kind            `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
	// OccurredOn is the transaction date. Zero when the client-supplied
	// date could not be parsed; EffectiveDate falls back to CreatedAt then.
	OccurredOn time.Time `json:"occurredOn"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EffectiveDate returns the date used for period filtering.
func (t *Transaction) EffectiveDate() time.Time {
	if t.OccurredOn.IsZero() {
		return t.CreatedAt
	}
	return t.OccurredOn
}

// ValidateKindAmount checks the sign invariant shared by create and edit.
func ValidateKindAmount(kind Kind, amount decimal.Decimal) error {
	switch kind {
	case KindIncome:
		if amount.IsNegative() {
			return ErrSignMismatch
		}
	case KindExpense:
		if amount.IsPositive() {
			return ErrSignMismatch
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

// CreateParams contains parameters for creating a new transaction
type CreateParams struct {
	OwnerID    int64
	Title      string
	Category   *string
	Kind       Kind
	Amount     decimal.Decimal
	OccurredOn time.Time
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.OwnerID <= 0 {
		return errors.New("valid owner ID is required")
	}
	if p.Title == "" {
		return errors.New("transaction title is required")
	}
	return ValidateKindAmount(p.Kind, p.Amount)
}

// UpdateParams contains parameters for editing a transaction.
// Nil fields are left unchanged; the sign invariant is re-validated
// against the merged result by the service.
type UpdateParams struct {
	Title      *string
	Category   *string
	Kind       *Kind
	Amount     *decimal.Decimal
	OccurredOn *time.Time
}
