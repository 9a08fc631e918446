package errors

import "errors"

// Domain errors for the redemption system. Every error here guarantees the
// call left the pool and ledger untouched; anything else reaching a caller is
// a storage failure with no such guarantee.
var (
	ErrInvalidPoolSpec   = errors.New("invalid pool spec")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidAddress    = errors.New("invalid claimant address")
	ErrPoolNotFound      = errors.New("redemption pool not found")
	ErrPoolExhausted     = errors.New("maximum number of wallets reached for this pool")
	ErrAlreadyRedeemed   = errors.New("wallet has already redeemed from this pool")
	ErrInsufficientFunds = errors.New("insufficient funds in pool")
)
