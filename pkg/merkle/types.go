package merkle

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/crypto"
)

// DigestSize is the size in bytes of every leaf, node and root digest.
const DigestSize = 32

// HashFn computes a 32-byte digest over arbitrary input bytes.
// The same function must be used for leaf encoding, tree construction
// and proof verification, otherwise roots will not match.
type HashFn func(data []byte) [32]byte

// SHA256 is the canonical hash function for airdrop trees.
var SHA256 HashFn = sha256.Sum256

// Keccak256 hashes with Ethereum's keccak-256, for EVM-targeted allocation lists.
var Keccak256 HashFn = func(data []byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(data))
}

// Side marks the position of a proof step's sibling digest relative to
// the node on the path from leaf to root. Concatenation is
// position-preserving, so verification cannot recombine a pair without it.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s is one of the two defined side flags.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// MerkleTree is a balanced binary hash tree over an ordered leaf sequence.
// It is built once and read-only afterward; generating proofs from multiple
// goroutines is safe.
type MerkleTree struct {
	// Leaves contains the leaf digests in input order.
	Leaves [][32]byte

	// Root is the merkle root digest.
	Root [32]byte

	// levels stores all tree levels for proof generation.
	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte
}

// ProofStep is one level of a merkle proof: the sibling digest and the
// side it occupies when recombining.
type ProofStep struct {
	Sibling [32]byte
	Side    Side
}

// Proof proves that a leaf is included in a tree with a given root.
// Steps are ordered from the leaf's own level up to just below the root;
// a single-leaf tree has an empty step list.
type Proof struct {
	// LeafIndex is the index of the proven leaf in the original sequence.
	LeafIndex int

	// Leaf is the digest being proven.
	Leaf [32]byte

	// Steps are the sibling digests from leaf level to root.
	Steps []ProofStep
}
