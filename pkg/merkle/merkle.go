package merkle

import "github.com/pkg/errors"

// BuildMerkleTree creates a binary merkle tree over the leaf digests in the
// order given. The caller is responsible for ordering; identical input order
// and content always yield an identical root and identical proofs.
//
// Pairing is position-preserving: parent = hash(left || right), children are
// never sorted. If a level has an odd number of nodes, the unpaired last
// node is hashed with a copy of itself (duplicate-last). Verification relies
// on both rules, so they are part of the wire contract, not tunables.
func BuildMerkleTree(leaves [][32]byte, hash HashFn) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if hash == nil {
		hash = SHA256
	}

	// Keep our own copy so later mutation of the caller's slice cannot
	// change proofs.
	level0 := make([][32]byte, len(leaves))
	copy(level0, leaves)

	levels := make([][][32]byte, 0)
	levels = append(levels, level0)

	currentLevel := level0
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			left := currentLevel[i]

			// Odd node count: the last node is its own sibling.
			right := left
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			}

			nextLevel = append(nextLevel, hashPair(hash, left, right))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	return &MerkleTree{
		Leaves: level0,
		Root:   currentLevel[0],
		levels: levels,
	}, nil
}

// GenerateProof creates an inclusion proof for the leaf at the given index.
// Each step records the sibling digest at that level and which side of the
// path node the sibling sits on. A single-leaf tree yields an empty proof.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*Proof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, errors.Errorf("leaf index %d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	steps := make([]ProofStep, 0, len(mt.levels)-1)
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		var siblingIndex int
		var side Side
		if index%2 == 0 {
			// Path node is on the left, sibling is on the right.
			siblingIndex = index + 1
			side = SideRight
		} else {
			siblingIndex = index - 1
			side = SideLeft
		}

		// Duplicate-last: the unpaired node is its own right-hand sibling.
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		steps = append(steps, ProofStep{
			Sibling: currentLevel[siblingIndex],
			Side:    side,
		})

		index = index / 2
	}

	return &Proof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Steps:     steps,
	}, nil
}

// VerifyProof recomputes a root from a leaf digest and an ordered list of
// proof steps and compares it to claimedRoot by exact byte equality.
//
// It is a pure function with no shared state; concurrent calls are safe.
// A well-formed proof that does not reproduce claimedRoot returns
// (false, nil). Only structural problems (an invalid side flag) return
// ErrMalformedProof.
func VerifyProof(leaf [32]byte, steps []ProofStep, claimedRoot [32]byte, hash HashFn) (bool, error) {
	if hash == nil {
		hash = SHA256
	}

	current := leaf
	for i, step := range steps {
		switch step.Side {
		case SideRight:
			current = hashPair(hash, current, step.Sibling)
		case SideLeft:
			current = hashPair(hash, step.Sibling, current)
		default:
			return false, errors.Wrapf(ErrMalformedProof, "step %d has invalid side %q", i, step.Side)
		}
	}

	return current == claimedRoot, nil
}

// FindLeaf returns the index of the first leaf equal to the given digest.
func (mt *MerkleTree) FindLeaf(leaf [32]byte) (int, bool) {
	for i, l := range mt.Leaves {
		if l == leaf {
			return i, true
		}
	}
	return 0, false
}

// hashPair computes hash(left || right) for two node digests.
// Concatenation order is fixed; build and verify share this exact rule.
func hashPair(hash HashFn, left, right [32]byte) [32]byte {
	data := make([]byte, 2*DigestSize)
	copy(data[:DigestSize], left[:])
	copy(data[DigestSize:], right[:])
	return hash(data)
}
