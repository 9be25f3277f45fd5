// Package memory provides in-memory repository implementations used by
// the demo binary and by tests. Each repository guards its maps with its
// own mutex; the conditional entitlement operations mutate under the
// write lock so they stay atomic just like their SQL counterparts.
package memory

import (
	"finmind/internal/domain/asset"
	"finmind/internal/domain/entitlement"
	"finmind/internal/domain/liability"
	"finmind/internal/domain/transaction"
	"finmind/internal/domain/user"
)

var (
	_ asset.Repository       = (*AssetRepository)(nil)
	_ liability.Repository   = (*LiabilityRepository)(nil)
	_ transaction.Repository = (*TransactionRepository)(nil)
	_ user.Repository        = (*UserRepository)(nil)
	_ entitlement.Repository = (*EntitlementRepository)(nil)
)
