package repository

import (
	"context"

	"github.com/Travisswop/swop-redeem-token/internal/model"
)

// RedemptionRepository defines the interface for the append-only redemption
// ledger. Entries are never updated or deleted.
type RedemptionRepository interface {
	// Append inserts a new ledger entry. Returns ErrAlreadyRedeemed when an
	// entry for (pool_id, claimant_address) already exists.
	Append(ctx context.Context, redemption *model.Redemption) error

	// SumForWallet returns the total base units already redeemed by an
	// address from a pool, 0 if none.
	SumForWallet(ctx context.Context, poolID, claimantAddress string) (int64, error)

	// DistinctClaimantCount returns the number of unique addresses that have
	// redeemed from the pool.
	DistinctClaimantCount(ctx context.Context, poolID string) (int64, error)

	// HasRedeemed reports whether the address has already redeemed from the pool
	HasRedeemed(ctx context.Context, poolID, claimantAddress string) (bool, error)

	// ListForPool returns all entries for a pool ordered by redeemed_at
	// ascending. Display and audit only; coordination decisions use the
	// counts above inside the redeem transaction.
	ListForPool(ctx context.Context, poolID string) ([]*model.Redemption, error)
}
