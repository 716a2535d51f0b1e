package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/logger"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence/badger"
)

const (
	addr1 = "wasm1k9zf3fpfpsv3lprzvpu2hsr09xfnum3hsvhhrq"
	addr2 = "wasm1uyc4s9cetgrxtqqrvcadldexfgvjk055pumrg8"
	addr3 = "wasm13xm8rr5g0n4uhl7s3nvusyfgn806hd4lad9hl8"
)

const allocationJSON = `[
	{"address": "` + addr1 + `", "amount": "100"},
	{"address": "` + addr2 + `", "amount": "1010"}
]`

// TestAirdropFlow runs the full file -> root -> proof -> verify cycle the
// CLI performs, including the negative case of replaying a proof for an
// unrelated record.
func TestAirdropFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allocations.json")
	require.NoError(t, os.WriteFile(path, []byte(allocationJSON), 0o644))

	records, err := airdrop.LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	encoding := airdrop.DefaultEncoding()
	tree, err := encoding.BuildTree(records)
	require.NoError(t, err)
	root := merkle.HexDigest(tree.Root)
	require.Equal(t, "648ca406e856a00b1da470c5e1ba3cbe143d607a7626236d6cf7a3851d065fbb", root)

	// Generate the proof for the first record.
	leaf, err := encoding.EncodeLeaf(addr1, "100")
	require.NoError(t, err)
	index, ok := tree.FindLeaf(leaf)
	require.True(t, ok)
	proof, err := tree.GenerateProof(index)
	require.NoError(t, err)

	// Round-trip through the wire format, as the CLI prints and re-reads it.
	wire, err := merkle.MarshalProofSteps(proof.Steps)
	require.NoError(t, err)
	steps, err := merkle.UnmarshalProofSteps(wire)
	require.NoError(t, err)

	valid, err := merkle.VerifyProof(leaf, steps, tree.Root, encoding.Hash)
	require.NoError(t, err)
	require.True(t, valid)

	// The same proof must not verify for an unrelated allocation.
	otherLeaf, err := encoding.EncodeLeaf(addr3, "999")
	require.NoError(t, err)
	valid, err = merkle.VerifyProof(otherLeaf, steps, tree.Root, encoding.Hash)
	require.NoError(t, err)
	require.False(t, valid)

	// An allocation missing from the list has no proof to generate.
	missing, err := encoding.EncodeLeaf(addr3, "999")
	require.NoError(t, err)
	_, ok = tree.FindLeaf(missing)
	require.False(t, ok)
}

// TestSnapshotCacheFlow exercises the cache path: a second run restores the
// tree from badger and produces identical proofs.
func TestSnapshotCacheFlow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allocations.json")
	require.NoError(t, os.WriteFile(path, []byte(allocationJSON), 0o644))

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	store, err := badger.NewBadgerStore(filepath.Join(dir, "cache"), testLogger)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	encoding := airdrop.DefaultEncoding()

	// First run: build from the file and cache.
	sourceDigest, err := airdrop.SourceDigest(path)
	require.NoError(t, err)
	records, err := airdrop.LoadRecords(path)
	require.NoError(t, err)
	tree, err := encoding.BuildTree(records)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(persistence.SnapshotFromTree(sourceDigest, "sha256", tree)))

	// Second run: cache hit, no record re-validation.
	snap, err := store.LoadSnapshot(sourceDigest)
	require.NoError(t, err)
	require.NotNil(t, snap)
	restored, err := snap.RestoreTree(encoding.Hash)
	require.NoError(t, err)
	require.Equal(t, tree.Root, restored.Root)

	p1, err := tree.GenerateProof(1)
	require.NoError(t, err)
	p2, err := restored.GenerateProof(1)
	require.NoError(t, err)
	require.Equal(t, p1.Steps, p2.Steps)

	// Editing the file misses the cache.
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	editedDigest, err := airdrop.SourceDigest(path)
	require.NoError(t, err)
	require.NotEqual(t, sourceDigest, editedDigest)
	snap, err = store.LoadSnapshot(editedDigest)
	require.NoError(t, err)
	require.Nil(t, snap)
}
