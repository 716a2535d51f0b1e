package airdrop

import (
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

// Encoding fixes the canonical byte layout of a leaf. Two independent
// implementations configured identically must hash identical (address,
// amount) pairs to identical digests; that stability is the whole point.
//
// The canonical layout is the one the claim contract recomputes on-chain:
// the UTF-8 bytes of the bech32 address string immediately followed by the
// ASCII decimal amount string, no separator, no length prefix. Only the
// hash function is configurable.
type Encoding struct {
	// Prefix, when non-empty, pins the expected bech32 human-readable
	// prefix of every address. Empty accepts any structurally valid one.
	Prefix string

	// Hash is the digest function applied to the encoded record and to
	// every node pair of the tree built over these leaves.
	Hash merkle.HashFn
}

// DefaultEncoding is the canonical configuration: any bech32 prefix, SHA-256.
func DefaultEncoding() Encoding {
	return Encoding{Hash: merkle.SHA256}
}

// EncodeLeaf serializes one record into its canonical bytes and hashes them
// into a leaf digest. Fails with ErrEncoding on a structurally invalid
// record; never has side effects.
func (e Encoding) EncodeLeaf(address, amount string) ([32]byte, error) {
	r := Record{Address: address, Amount: amount}
	if err := r.Validate(e.Prefix); err != nil {
		return [32]byte{}, err
	}

	hash := e.Hash
	if hash == nil {
		hash = merkle.SHA256
	}

	data := make([]byte, 0, len(address)+len(amount))
	data = append(data, address...)
	data = append(data, amount...)
	return hash(data), nil
}

// EncodeLeaves encodes every record in order. Record order is preserved;
// the resulting slice is the level-0 input to merkle.BuildMerkleTree.
func (e Encoding) EncodeLeaves(records []Record) ([][32]byte, error) {
	leaves := make([][32]byte, len(records))
	for i, r := range records {
		leaf, err := e.EncodeLeaf(r.Address, r.Amount)
		if err != nil {
			return nil, err
		}
		leaves[i] = leaf
	}
	return leaves, nil
}

// BuildTree encodes the records and builds the merkle tree over them with
// the encoding's hash function.
func (e Encoding) BuildTree(records []Record) (*merkle.MerkleTree, error) {
	leaves, err := e.EncodeLeaves(records)
	if err != nil {
		return nil, err
	}
	hash := e.Hash
	if hash == nil {
		hash = merkle.SHA256
	}
	return merkle.BuildMerkleTree(leaves, hash)
}
