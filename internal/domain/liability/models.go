package liability

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("liability not found")
	ErrForbidden     = errors.New("access forbidden")
	ErrNegativeValue = errors.New("liability value must not be negative")
)

// Liability is a debt record owned by exactly one account.
type Liability struct {
	ID        string          `json:"id"`
	OwnerID   int64           `json:"ownerId"`
	Name      string          `json:"name"`
	Tag       *string         `json:"tag,omitempty"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CreateParams struct {
	OwnerID int64
	Name    string
	Tag     *string
	Value   decimal.Decimal
}

func (p CreateParams) Validate() error {
	if p.OwnerID <= 0 {
		return errors.New("valid owner ID is required")
	}
	if p.Name == "" {
		return errors.New("liability name is required")
	}
	if p.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

type UpdateParams struct {
	Name  *string
	Tag   *string
	Value *decimal.Decimal
}

func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("liability name must not be empty")
	}
	if p.Value != nil && p.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}
