package solana

import (
	"context"

	"go.uber.org/zap"
)

// AuthorizationRecorder is the in-process stand-in for the external
// settlement service. It records the committed authorization so the external
// mover can pick it up; it never touches the chain itself.
type AuthorizationRecorder struct {
	logger *zap.Logger
}

// NewAuthorizationRecorder creates an AuthorizationRecorder
func NewAuthorizationRecorder(logger *zap.Logger) *AuthorizationRecorder {
	return &AuthorizationRecorder{logger: logger}
}

// Disburse records the authorization for out-of-band settlement.
func (r *AuthorizationRecorder) Disburse(ctx context.Context, escrowRef, claimantAddress string, amount int64) error {
	r.logger.Info("disbursement authorized",
		zap.String("claimant_address", claimantAddress),
		zap.Int64("amount", amount),
	)
	return nil
}
