package merkle

import "github.com/pkg/errors"

var (
	// ErrEmptyTree is returned when building a tree from zero leaves.
	ErrEmptyTree = errors.New("cannot build merkle tree from empty leaf list")

	// ErrMalformedProof is returned when a proof is structurally invalid:
	// a missing or unknown side flag, or a digest of the wrong length.
	// A well-formed proof that simply does not match a root is NOT an
	// error; verification reports that as false.
	ErrMalformedProof = errors.New("malformed merkle proof")
)
