package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pool represents a pre-funded redemption pool. All amounts are integer base
// units (the token's smallest indivisible unit); only the responses convert
// back to human decimals.
type Pool struct {
	PoolID          string    `bson:"_id" json:"pool_id"`
	OwnerID         string    `bson:"owner_id" json:"owner_id"`
	TotalAmount     int64     `bson:"total_amount" json:"total_amount"`
	RemainingAmount int64     `bson:"remaining_amount" json:"remaining_amount"`
	TokenName       string    `bson:"token_name" json:"token_name"`
	TokenSymbol     string    `bson:"token_symbol" json:"token_symbol"`
	TokenLogo       string    `bson:"token_logo" json:"token_logo"`
	TokenMint       string    `bson:"token_mint" json:"token_mint"`
	TokenDecimals   int32     `bson:"token_decimals" json:"token_decimals"`
	TokensPerWallet int64     `bson:"tokens_per_wallet" json:"tokens_per_wallet"`
	MaxWallets      int64     `bson:"max_wallets" json:"max_wallets"`
	EscrowReference string    `bson:"escrow_reference" json:"-"` // opaque secret, never serialized outward
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// Redemption is one committed claim against a pool. Entries are immutable
// once written; they are the audit trail and the source of truth for
// "has this wallet already claimed".
type Redemption struct {
	RedemptionID    string    `bson:"_id" json:"redemption_id"`
	PoolID          string    `bson:"pool_id" json:"pool_id"`
	ClaimantAddress string    `bson:"claimant_address" json:"claimant_address"`
	Amount          int64     `bson:"amount" json:"amount"`
	RedeemedAt      time.Time `bson:"redeemed_at" json:"redeemed_at"`
}

// RedemptionResult is returned to the caller after a successful claim.
type RedemptionResult struct {
	RedemptionID   string `json:"redemption_id"`
	AmountGranted  int64  `json:"amount_granted"`
	RemainingAfter int64  `json:"remaining_after"`
}

// CreatePoolRequest carries human-decimal amounts; the pool factory converts
// them to base units with the pool's own decimal precision.
type CreatePoolRequest struct {
	OwnerID         string          `json:"owner_id" binding:"required"`
	TokenName       string          `json:"token_name" binding:"required"`
	TokenSymbol     string          `json:"token_symbol" binding:"required"`
	TokenLogo       string          `json:"token_logo" binding:"required"`
	TokenMint       string          `json:"token_mint" binding:"required"`
	TokenDecimals   int32           `json:"token_decimals"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TokensPerWallet decimal.Decimal `json:"tokens_per_wallet"`
	MaxWallets      int64           `json:"max_wallets"`
}

// CreatePoolResponse identifies the new pool and the escrow account the
// external settlement process must fund.
type CreatePoolResponse struct {
	PoolID        string `json:"pool_id"`
	EscrowAddress string `json:"escrow_address"`
	RedeemLink    string `json:"redeem_link"`
}

// RedeemRequest identifies the claimant. Recipient is either a wallet
// address or an alias the resolver collaborator can turn into one.
type RedeemRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// PoolSummary is the per-owner listing projection, amounts converted back to
// display decimals.
type PoolSummary struct {
	PoolID              string          `json:"pool_id"`
	TokenName           string          `json:"token_name"`
	TokenSymbol         string          `json:"token_symbol"`
	TokenLogo           string          `json:"token_logo"`
	TokenMint           string          `json:"token_mint"`
	TokenDecimals       int32           `json:"token_decimals"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	RemainingAmount     decimal.Decimal `json:"remaining_amount"`
	TokensPerWallet     decimal.Decimal `json:"tokens_per_wallet"`
	MaxWallets          int64           `json:"max_wallets"`
	TotalRedemptions    int64           `json:"total_redemptions"`
	TotalRedeemedAmount decimal.Decimal `json:"total_redeemed_amount"`
	RedeemLink          string          `json:"redeem_link"`
	CreatedAt           time.Time       `json:"created_at"`
}
