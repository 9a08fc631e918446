package repository

import (
	"context"

	"github.com/Travisswop/swop-redeem-token/internal/model"
)

// PoolRepository defines the interface for pool data operations
type PoolRepository interface {
	// Create persists a new pool row with remaining_amount seeded by the caller
	Create(ctx context.Context, pool *model.Pool) error

	// GetByID retrieves a pool by its identifier
	GetByID(ctx context.Context, poolID string) (*model.Pool, error)

	// DecrementRemaining atomically subtracts amount from remaining_amount,
	// only if the result stays non-negative, and returns the updated pool.
	// Returns ErrInsufficientFunds otherwise, leaving the row unchanged.
	DecrementRemaining(ctx context.Context, poolID string, amount int64) (*model.Pool, error)

	// ListByOwner retrieves the pools created by an owner, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Pool, error)
}
