package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Travisswop/swop-redeem-token/internal/model"
	"github.com/Travisswop/swop-redeem-token/internal/repository"
	"github.com/Travisswop/swop-redeem-token/internal/solana"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// RedeemService is the transactional core: it decides whether a claim is
// currently allowed and records the outcome durably. Balance decrement and
// ledger append always commit or roll back as one unit.
type RedeemService struct {
	pools   repository.PoolRepository
	ledger  repository.RedemptionRepository
	txn     TxnRunner
	settler Settler
	logger  *zap.Logger
}

// NewRedeemService creates a new redemption coordinator
func NewRedeemService(
	pools repository.PoolRepository,
	ledger repository.RedemptionRepository,
	txn TxnRunner,
	settler Settler,
	logger *zap.Logger,
) *RedeemService {
	return &RedeemService{
		pools:   pools,
		ledger:  ledger,
		txn:     txn,
		settler: settler,
		logger:  logger,
	}
}

// Redeem attempts one claim of tokens_per_wallet base units for the given
// address. The eligibility checks, the conditional balance decrement, and the
// ledger append run inside a single transaction; concurrent claims against
// the same pool serialize on the pool document write. A failed call leaves
// the pool and ledger exactly as they were.
func (s *RedeemService) Redeem(ctx context.Context, poolID, claimantAddress string) (*model.RedemptionResult, error) {
	if err := solana.ValidateAddress(claimantAddress); err != nil {
		return nil, err
	}

	var (
		result    model.RedemptionResult
		escrowRef string
	)

	err := s.txn.WithTransaction(ctx, func(txCtx context.Context) error {
		pool, err := s.pools.GetByID(txCtx, poolID)
		if err != nil {
			return err
		}

		claimants, err := s.ledger.DistinctClaimantCount(txCtx, poolID)
		if err != nil {
			return err
		}
		if claimants >= pool.MaxWallets {
			return apperrors.ErrPoolExhausted
		}

		redeemed, err := s.ledger.HasRedeemed(txCtx, poolID, claimantAddress)
		if err != nil {
			return err
		}
		if redeemed {
			return apperrors.ErrAlreadyRedeemed
		}

		updated, err := s.pools.DecrementRemaining(txCtx, poolID, pool.TokensPerWallet)
		if err != nil {
			return err
		}

		entry := &model.Redemption{
			RedemptionID:    uuid.NewString(),
			PoolID:          poolID,
			ClaimantAddress: claimantAddress,
			Amount:          pool.TokensPerWallet,
			RedeemedAt:      time.Now().UTC(),
		}
		if err := s.ledger.Append(txCtx, entry); err != nil {
			return err
		}

		escrowRef = pool.EscrowReference
		result = model.RedemptionResult{
			RedemptionID:   entry.RedemptionID,
			AmountGranted:  entry.Amount,
			RemainingAfter: updated.RemainingAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("redemption committed",
		zap.String("pool_id", poolID),
		zap.String("claimant_address", claimantAddress),
		zap.String("redemption_id", result.RedemptionID),
		zap.Int64("amount", result.AmountGranted),
		zap.Int64("remaining_after", result.RemainingAfter),
	)

	// Hand the committed authorization to the settlement collaborator. Its
	// outcome does not affect the ledger; reconciliation is out of band.
	if s.settler != nil {
		if err := s.settler.Disburse(ctx, escrowRef, claimantAddress, result.AmountGranted); err != nil {
			s.logger.Warn("settlement handoff failed",
				zap.String("redemption_id", result.RedemptionID),
				zap.Error(err),
			)
		}
	}

	return &result, nil
}

// ListRedemptions returns the audit trail for a pool, oldest first.
func (s *RedeemService) ListRedemptions(ctx context.Context, poolID string) ([]*model.Redemption, error) {
	if _, err := s.pools.GetByID(ctx, poolID); err != nil {
		return nil, err
	}
	return s.ledger.ListForPool(ctx, poolID)
}
