// Package solana adapts the solana-go SDK for the two on-chain touchpoints
// the service has: generating escrow keypairs for new pools and validating
// claimant addresses. Transaction construction, signing, and settlement live
// in an external process.
package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	apperrors "github.com/Travisswop/swop-redeem-token/pkg/errors"
)

// Keygen generates escrow keypairs for new pools.
type Keygen struct{}

// NewKeygen creates a Keygen
func NewKeygen() *Keygen {
	return &Keygen{}
}

// GenerateEscrow creates a fresh keypair and returns its public address plus
// the base58-encoded secret. The secret is stored as the pool's opaque escrow
// reference; only the external settlement process ever decodes it.
func (k *Keygen) GenerateEscrow() (address, secretRef string, err error) {
	account := solana.NewWallet()
	return account.PublicKey().String(), account.PrivateKey.String(), nil
}

// ValidateAddress checks that s is a syntactically well-formed Solana public
// key (base58, 32 bytes). It does not check existence on chain.
func ValidateAddress(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty address", apperrors.ErrInvalidAddress)
	}
	if _, err := solana.PublicKeyFromBase58(s); err != nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidAddress, s)
	}
	return nil
}
