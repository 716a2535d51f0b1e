package persistence

import (
	"time"

	"github.com/pkg/errors"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

// SnapshotFromTree captures a built tree for caching.
func SnapshotFromTree(sourceDigest, hashAlgo string, tree *merkle.MerkleTree) *Snapshot {
	leaves := make([]string, len(tree.Leaves))
	for i, leaf := range tree.Leaves {
		leaves[i] = merkle.HexDigest(leaf)
	}
	return &Snapshot{
		SourceDigest: sourceDigest,
		HashAlgo:     hashAlgo,
		Root:         merkle.HexDigest(tree.Root),
		Leaves:       leaves,
		CreatedAt:    time.Now().UTC(),
	}
}

// RestoreTree rebuilds the merkle tree from the cached leaf digests and
// checks the recomputed root against the stored one, so a corrupted cache
// entry can never produce proofs for a different root.
func (s *Snapshot) RestoreTree(hash merkle.HashFn) (*merkle.MerkleTree, error) {
	leaves := make([][32]byte, len(s.Leaves))
	for i, h := range s.Leaves {
		leaf, err := merkle.ParseDigest(h)
		if err != nil {
			return nil, errors.Wrapf(err, "cached leaf %d", i)
		}
		leaves[i] = leaf
	}

	tree, err := merkle.BuildMerkleTree(leaves, hash)
	if err != nil {
		return nil, err
	}

	if merkle.HexDigest(tree.Root) != s.Root {
		return nil, errors.Errorf("cached root %s does not match rebuilt root %s", s.Root, merkle.HexDigest(tree.Root))
	}
	return tree, nil
}
