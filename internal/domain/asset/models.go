package asset

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound      = errors.New("asset not found")
	ErrForbidden     = errors.New("access forbidden")
	ErrNegativeValue = errors.New("asset value must not be negative")
)

// Asset represents a balance record owned by exactly one account.
// Its value contributes to net-worth totals regardless of any
// transaction period.
type Asset struct {
	ID        string          `json:"id"`
	OwnerID   int64           `json:"ownerId"`
	Name      string          `json:"name"`
	Tag       *string         `json:"tag,omitempty"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new asset
type CreateParams struct {
	OwnerID int64
	Name    string
	Tag     *string
	Value   decimal.Decimal
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.OwnerID <= 0 {
		return errors.New("valid owner ID is required")
	}
	if p.Name == "" {
		return errors.New("asset name is required")
	}
	if p.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}

// UpdateParams contains parameters for updating an asset.
// Nil fields are left unchanged.
type UpdateParams struct {
	Name  *string
	Tag   *string
	Value *decimal.Decimal
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("asset name must not be empty")
	}
	if p.Value != nil && p.Value.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}
