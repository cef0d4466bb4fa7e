// Package pubkey validates Solana public keys.
package pubkey

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PubkeyLength is the byte length of a Solana public key.
const PubkeyLength = 32

// Validation errors.
var (
	ErrInvalidBase58 = errors.New("invalid base58 encoding")
	ErrInvalidLength = errors.New("public key must decode to 32 bytes")
)

// Validate checks that s is a well-formed Solana public key: base58 text
// that decodes to exactly 32 bytes.
func Validate(s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	if len(decoded) != PubkeyLength {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, len(decoded))
	}
	return nil
}

// IsOnCurve reports whether the key decodes to a point on the ed25519
// curve. Wallet addresses are on-curve; program-derived addresses are not.
func IsOnCurve(s string) (bool, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidBase58, err)
	}
	if len(decoded) != PubkeyLength {
		return false, fmt.Errorf("%w: got %d", ErrInvalidLength, len(decoded))
	}

	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil, nil
}
