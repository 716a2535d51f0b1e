package memory

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence"
)

// MemoryStore is an in-memory implementation of persistence.Store,
// intended for tests. All data is lost when the process exits.
// Thread-safe; deep copies snapshots to prevent external mutation.
type MemoryStore struct {
	mu sync.RWMutex

	// snapshots: source digest -> Snapshot
	snapshots map[string]*persistence.Snapshot

	closed bool
}

var _ persistence.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*persistence.Snapshot),
	}
}

// SaveSnapshot stores a deep copy of the snapshot.
func (m *MemoryStore) SaveSnapshot(snapshot *persistence.Snapshot) error {
	if snapshot == nil {
		return errors.New("cannot save nil Snapshot")
	}
	if snapshot.SourceDigest == "" {
		return errors.New("cannot save Snapshot without source digest")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("store is closed")
	}

	m.snapshots[snapshot.SourceDigest] = copySnapshot(snapshot)
	return nil
}

// LoadSnapshot returns a deep copy of the stored snapshot, or nil.
func (m *MemoryStore) LoadSnapshot(sourceDigest string) (*persistence.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errors.New("store is closed")
	}

	s, ok := m.snapshots[sourceDigest]
	if !ok {
		return nil, nil
	}
	return copySnapshot(s), nil
}

// ListSnapshots returns all snapshots sorted by creation time.
func (m *MemoryStore) ListSnapshots() ([]*persistence.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errors.New("store is closed")
	}

	out := make([]*persistence.Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, copySnapshot(s))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteSnapshot removes a snapshot. Idempotent.
func (m *MemoryStore) DeleteSnapshot(sourceDigest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("store is closed")
	}

	delete(m.snapshots, sourceDigest)
	return nil
}

// Close marks the store closed. Idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// HealthCheck reports whether the store is usable.
func (m *MemoryStore) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errors.New("store is closed")
	}
	return nil
}

func copySnapshot(s *persistence.Snapshot) *persistence.Snapshot {
	out := *s
	out.Leaves = append([]string(nil), s.Leaves...)
	return &out
}
