package airdrop

import "github.com/pkg/errors"

var (
	// ErrEncoding is returned when a record cannot be canonically encoded:
	// empty or non-bech32 address, or a negative/non-numeric amount.
	ErrEncoding = errors.New("invalid airdrop record encoding")

	// ErrNotFound is returned when no record in the loaded allocation list
	// matches a queried address and amount.
	ErrNotFound = errors.New("record not found in allocation list")
)
