package service

import "context"

// TxnRunner executes a function inside one atomic, isolated transaction.
// Everything fn does with the context it receives either commits together or
// rolls back together.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EscrowKeygen generates the escrow keypair for a new pool. The secret
// reference is opaque to this service; only the external settlement process
// interprets it.
type EscrowKeygen interface {
	GenerateEscrow() (address, secretRef string, err error)
}

// Settler is the external collaborator that actually moves value. The ledger
// entry written by Redeem is the authorization; settlement happens out of
// band and is reconciled elsewhere.
type Settler interface {
	Disburse(ctx context.Context, escrowRef, claimantAddress string, amount int64) error
}
