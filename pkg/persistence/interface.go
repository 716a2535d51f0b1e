package persistence

import "time"

// Snapshot is a cached result of building a merkle tree over one allocation
// file. It carries everything needed to reconstruct the tree (the ordered
// leaf digests) without re-validating and re-hashing every record, plus the
// root for fast generateRoot runs.
//
// Snapshots are keyed by SourceDigest, the sha256 of the allocation file
// bytes, so any edit to the file misses the cache.
type Snapshot struct {
	// SourceDigest is the hex sha256 of the allocation file bytes.
	SourceDigest string `json:"source_digest"`

	// HashAlgo names the hash function the tree was built with. A snapshot
	// built with a different algorithm than the current run is unusable.
	HashAlgo string `json:"hash_algo"`

	// Root is the hex merkle root.
	Root string `json:"root"`

	// Leaves are the hex leaf digests in record order.
	Leaves []string `json:"leaves"`

	CreatedAt time.Time `json:"created_at"`
}

// Store persists tree snapshots across CLI runs. All implementations must
// be safe for concurrent use.
type Store interface {
	// SaveSnapshot persists a snapshot, overwriting any existing snapshot
	// with the same source digest.
	SaveSnapshot(snapshot *Snapshot) error

	// LoadSnapshot retrieves a snapshot by source digest.
	// Returns nil if no snapshot exists, error only on storage failure.
	LoadSnapshot(sourceDigest string) (*Snapshot, error)

	// ListSnapshots returns all snapshots sorted by creation time (ascending).
	// Returns an empty slice if none exist, error only on storage failure.
	ListSnapshots() ([]*Snapshot, error)

	// DeleteSnapshot removes a snapshot by source digest.
	// Idempotent: returns nil if the snapshot does not exist.
	DeleteSnapshot(sourceDigest string) error

	// Close cleanly shuts down the store. Idempotent; after Close all
	// other operations return errors.
	Close() error

	// HealthCheck verifies the store is operational.
	HealthCheck() error
}
