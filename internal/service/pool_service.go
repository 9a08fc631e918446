package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Travisswop/swop-redeem-token/internal/amount"
	"github.com/Travisswop/swop-redeem-token/internal/model"
	"github.com/Travisswop/swop-redeem-token/internal/repository"
	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// PoolService creates pools and serves their read models.
type PoolService struct {
	pools   repository.PoolRepository
	ledger  repository.RedemptionRepository
	keygen  EscrowKeygen
	baseURL string
	logger  *zap.Logger
}

// NewPoolService creates a new pool service
func NewPoolService(
	pools repository.PoolRepository,
	ledger repository.RedemptionRepository,
	keygen EscrowKeygen,
	baseURL string,
	logger *zap.Logger,
) *PoolService {
	return &PoolService{
		pools:   pools,
		ledger:  ledger,
		keygen:  keygen,
		baseURL: baseURL,
		logger:  logger,
	}
}

// CreatePool validates the request, generates an escrow keypair, and persists a
// pool seeded with remaining_amount = total_amount. The returned escrow
// address is what the owner must fund before redemptions can settle.
func (s *PoolService) CreatePool(ctx context.Context, req *model.CreatePoolRequest) (*model.CreatePoolResponse, error) {
	if err := validatePoolSpec(req); err != nil {
		return nil, err
	}

	totalUnits, err := amount.ToBaseUnits(req.TotalAmount, req.TokenDecimals)
	if err != nil {
		return nil, err
	}
	perWalletUnits, err := amount.ToBaseUnits(req.TokensPerWallet, req.TokenDecimals)
	if err != nil {
		return nil, err
	}
	if totalUnits <= 0 {
		return nil, fmt.Errorf("%w: total_amount must be positive", apperrors.ErrInvalidPoolSpec)
	}
	if perWalletUnits <= 0 {
		return nil, fmt.Errorf("%w: tokens_per_wallet must be positive", apperrors.ErrInvalidPoolSpec)
	}

	escrowAddress, escrowRef, err := s.keygen.GenerateEscrow()
	if err != nil {
		return nil, fmt.Errorf("generate escrow keypair: %w", err)
	}

	pool := &model.Pool{
		PoolID:          uuid.NewString(),
		OwnerID:         req.OwnerID,
		TotalAmount:     totalUnits,
		RemainingAmount: totalUnits,
		TokenName:       req.TokenName,
		TokenSymbol:     req.TokenSymbol,
		TokenLogo:       req.TokenLogo,
		TokenMint:       req.TokenMint,
		TokenDecimals:   req.TokenDecimals,
		TokensPerWallet: perWalletUnits,
		MaxWallets:      req.MaxWallets,
		EscrowReference: escrowRef,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.pools.Create(ctx, pool); err != nil {
		return nil, err
	}

	s.logger.Info("redemption pool created",
		zap.String("pool_id", pool.PoolID),
		zap.String("owner_id", pool.OwnerID),
		zap.String("token_mint", pool.TokenMint),
		zap.Int64("total_amount", pool.TotalAmount),
		zap.Int64("max_wallets", pool.MaxWallets),
	)

	return &model.CreatePoolResponse{
		PoolID:        pool.PoolID,
		EscrowAddress: escrowAddress,
		RedeemLink:    s.redeemLink(pool.PoolID),
	}, nil
}

// GetPool returns the public read model of a pool.
func (s *PoolService) GetPool(ctx context.Context, poolID string) (*model.Pool, error) {
	return s.pools.GetByID(ctx, poolID)
}

// ListPools returns the owner's pools, newest first, enriched with claim
// statistics and display-decimal amounts.
func (s *PoolService) ListPools(ctx context.Context, ownerID string) ([]*model.PoolSummary, error) {
	pools, err := s.pools.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.PoolSummary, 0, len(pools))
	for _, pool := range pools {
		claimants, err := s.ledger.DistinctClaimantCount(ctx, pool.PoolID)
		if err != nil {
			return nil, err
		}

		// remaining_amount == total_amount - sum(ledger) at all times, so
		// the redeemed total needs no ledger scan.
		redeemedUnits := pool.TotalAmount - pool.RemainingAmount

		summaries = append(summaries, &model.PoolSummary{
			PoolID:              pool.PoolID,
			TokenName:           pool.TokenName,
			TokenSymbol:         pool.TokenSymbol,
			TokenLogo:           pool.TokenLogo,
			TokenMint:           pool.TokenMint,
			TokenDecimals:       pool.TokenDecimals,
			TotalAmount:         amount.FromBaseUnits(pool.TotalAmount, pool.TokenDecimals),
			RemainingAmount:     amount.FromBaseUnits(pool.RemainingAmount, pool.TokenDecimals),
			TokensPerWallet:     amount.FromBaseUnits(pool.TokensPerWallet, pool.TokenDecimals),
			MaxWallets:          pool.MaxWallets,
			TotalRedemptions:    claimants,
			TotalRedeemedAmount: amount.FromBaseUnits(redeemedUnits, pool.TokenDecimals),
			RedeemLink:          s.redeemLink(pool.PoolID),
			CreatedAt:           pool.CreatedAt,
		})
	}

	return summaries, nil
}

func (s *PoolService) redeemLink(poolID string) string {
	return fmt.Sprintf("%s/redeem/%s", s.baseURL, poolID)
}

func validatePoolSpec(req *model.CreatePoolRequest) error {
	switch {
	case req.OwnerID == "":
		return fmt.Errorf("%w: owner_id is required", apperrors.ErrInvalidPoolSpec)
	case req.TokenName == "":
		return fmt.Errorf("%w: token_name is required", apperrors.ErrInvalidPoolSpec)
	case req.TokenSymbol == "":
		return fmt.Errorf("%w: token_symbol is required", apperrors.ErrInvalidPoolSpec)
	case req.TokenLogo == "":
		return fmt.Errorf("%w: token_logo is required", apperrors.ErrInvalidPoolSpec)
	case req.TokenMint == "":
		return fmt.Errorf("%w: token_mint is required", apperrors.ErrInvalidPoolSpec)
	case req.MaxWallets <= 0:
		return fmt.Errorf("%w: max_wallets must be positive", apperrors.ErrInvalidPoolSpec)
	}
	return nil
}
