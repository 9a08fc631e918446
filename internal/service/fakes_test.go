package service

import (
	"context"
	"sync"

	"github.com/Travisswop/swop-redeem-token/internal/model"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// fakeStore is an in-memory stand-in for both repositories plus the
// transaction runner. Transactions serialize on a mutex and snapshot the
// state so a failing callback rolls back completely, mirroring the
// storage-layer contract the coordinator relies on.
type fakeStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	pools       map[string]*model.Pool
	redemptions []*model.Redemption

	appendErr error // injected failure for rollback tests
}

func newFakeStore() *fakeStore {
	return &fakeStore{pools: make(map[string]*model.Pool)}
}

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	poolsSnap := make(map[string]*model.Pool, len(f.pools))
	for id, p := range f.pools {
		cp := *p
		poolsSnap[id] = &cp
	}
	redemptionsSnap := append([]*model.Redemption(nil), f.redemptions...)
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.pools = poolsSnap
		f.redemptions = redemptionsSnap
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) Create(ctx context.Context, pool *model.Pool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *pool
	f.pools[pool.PoolID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, poolID string) (*model.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pool, ok := f.pools[poolID]
	if !ok {
		return nil, apperrors.ErrPoolNotFound
	}
	cp := *pool
	return &cp, nil
}

func (f *fakeStore) DecrementRemaining(ctx context.Context, poolID string, amount int64) (*model.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pool, ok := f.pools[poolID]
	if !ok {
		return nil, apperrors.ErrPoolNotFound
	}
	if pool.RemainingAmount < amount {
		return nil, apperrors.ErrInsufficientFunds
	}
	pool.RemainingAmount -= amount
	cp := *pool
	return &cp, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pools []*model.Pool
	for _, p := range f.pools {
		if p.OwnerID == ownerID {
			cp := *p
			pools = append(pools, &cp)
		}
	}
	return pools, nil
}

func (f *fakeStore) Append(ctx context.Context, redemption *model.Redemption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, r := range f.redemptions {
		if r.PoolID == redemption.PoolID && r.ClaimantAddress == redemption.ClaimantAddress {
			return apperrors.ErrAlreadyRedeemed
		}
	}
	cp := *redemption
	f.redemptions = append(f.redemptions, &cp)
	return nil
}

func (f *fakeStore) SumForWallet(ctx context.Context, poolID, claimantAddress string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, r := range f.redemptions {
		if r.PoolID == poolID && r.ClaimantAddress == claimantAddress {
			total += r.Amount
		}
	}
	return total, nil
}

func (f *fakeStore) DistinctClaimantCount(ctx context.Context, poolID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]struct{})
	for _, r := range f.redemptions {
		if r.PoolID == poolID {
			seen[r.ClaimantAddress] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeStore) HasRedeemed(ctx context.Context, poolID, claimantAddress string) (bool, error) {
	total, err := f.SumForWallet(ctx, poolID, claimantAddress)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (f *fakeStore) ListForPool(ctx context.Context, poolID string) ([]*model.Redemption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []*model.Redemption
	for _, r := range f.redemptions {
		if r.PoolID == poolID {
			cp := *r
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}

// ledgerSum recomputes the committed total for the balance invariant checks.
func (f *fakeStore) ledgerSum(poolID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, r := range f.redemptions {
		if r.PoolID == poolID {
			total += r.Amount
		}
	}
	return total
}
