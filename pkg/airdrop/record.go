package airdrop

import (
	"math/big"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

// Record is one allocation entry: a bech32 account address and the amount
// it may claim. Amount stays a decimal string because it is hashed as the
// exact bytes that appear in the allocation file; it is validated as an
// arbitrary-precision non-negative integer.
//
// Records are immutable once loaded. The core does not enforce address
// uniqueness; duplicate records produce duplicate leaves.
type Record struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// Validate checks the record against the structural rules of the canonical
// encoding: non-empty bech32 address (checksum verified, optionally pinned
// to a human-readable prefix) and a non-negative decimal integer amount.
func (r Record) Validate(expectedPrefix string) error {
	if r.Address == "" {
		return errors.Wrap(ErrEncoding, "address is empty")
	}

	hrp, _, err := bech32.Decode(r.Address)
	if err != nil {
		return errors.Wrapf(ErrEncoding, "address %q is not valid bech32: %v", r.Address, err)
	}
	if expectedPrefix != "" && hrp != expectedPrefix {
		return errors.Wrapf(ErrEncoding, "address %q has prefix %q, want %q", r.Address, hrp, expectedPrefix)
	}

	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	return nil
}

// validateAmount rejects anything that is not a plain base-10 unsigned
// integer. Signs and whitespace are rejected even where math/big would
// accept them, since the amount string is hashed verbatim.
func validateAmount(amount string) error {
	if amount == "" {
		return errors.Wrap(ErrEncoding, "amount is empty")
	}
	if amount[0] == '+' || amount[0] == '-' {
		return errors.Wrapf(ErrEncoding, "amount %q must be an unsigned decimal integer", amount)
	}
	if _, ok := new(big.Int).SetString(amount, 10); !ok {
		return errors.Wrapf(ErrEncoding, "amount %q is not a decimal integer", amount)
	}
	return nil
}

// FindRecord returns the index of the first record matching address and
// amount, or ErrNotFound.
func FindRecord(records []Record, address, amount string) (int, error) {
	for i, r := range records {
		if r.Address == address && r.Amount == amount {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNotFound, "address %s amount %s", address, amount)
}
