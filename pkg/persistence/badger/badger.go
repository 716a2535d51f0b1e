package badger

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence"
)

// Key prefixes for namespacing
const (
	keyPrefixSnapshot    = "snapshot:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerStore is a disk-backed snapshot store using Badger. It caches built
// trees across CLI runs so large allocation lists are validated and hashed
// once.
type BadgerStore struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

var _ persistence.Store = (*BadgerStore)(nil)

// NewBadgerStore opens a Badger-backed snapshot store at the given cache
// directory. A background goroutine runs value log garbage collection.
func NewBadgerStore(cacheDir string, logger *zap.Logger) (*BadgerStore, error) {
	absPath, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve absolute cache path")
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger cache at %s", absPath)
	}

	bs := &BadgerStore{
		db:     db,
		logger: logger,
	}

	if err := bs.initSchema(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	ctx, cancel := context.WithCancel(context.Background())
	bs.gcCancel = cancel
	bs.gcWg.Add(1)
	go bs.runGC(ctx)

	logger.Sugar().Debugw("Badger snapshot cache initialized", "path", absPath)

	return bs, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerStore) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return errors.Wrap(err, "failed to read schema version")
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "failed to read schema version value")
		}

		if existingVersion != currentSchemaVersion {
			return errors.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}
		return nil
	})
}

// runGC runs periodic garbage collection in the background
func (b *BadgerStore) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SaveSnapshot persists a snapshot, overwriting any existing entry for the
// same source digest.
func (b *BadgerStore) SaveSnapshot(snapshot *persistence.Snapshot) error {
	if snapshot == nil {
		return errors.New("cannot save nil Snapshot")
	}
	if snapshot.SourceDigest == "" {
		return errors.New("cannot save Snapshot without source digest")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.New("store is closed")
	}

	data, err := persistence.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	key := keyPrefixSnapshot + snapshot.SourceDigest
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// LoadSnapshot retrieves a snapshot by source digest. Returns nil when no
// snapshot exists.
func (b *BadgerStore) LoadSnapshot(sourceDigest string) (*persistence.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, errors.New("store is closed")
	}

	key := keyPrefixSnapshot + sourceDigest

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...) // Copy value
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load Snapshot")
	}

	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalSnapshot(data)
}

// ListSnapshots returns all snapshots sorted by creation time.
func (b *BadgerStore) ListSnapshots() ([]*persistence.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, errors.New("store is closed")
	}

	snapshots := make([]*persistence.Snapshot, 0)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixSnapshot)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...)
				return nil
			})
			if err != nil {
				return errors.Wrap(err, "failed to read value")
			}

			snapshot, err := persistence.UnmarshalSnapshot(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal Snapshot, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			snapshots = append(snapshots, snapshot)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list Snapshots")
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// DeleteSnapshot removes a snapshot. Idempotent.
func (b *BadgerStore) DeleteSnapshot(sourceDigest string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.New("store is closed")
	}

	key := keyPrefixSnapshot + sourceDigest
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close stops background GC and closes the database. Idempotent.
func (b *BadgerStore) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return errors.Wrap(err, "failed to close badger cache")
	}

	b.logger.Sugar().Debug("Badger snapshot cache closed")
	return nil
}

// HealthCheck verifies the store is operational.
func (b *BadgerStore) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.New("store is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return errors.New("schema version not found - cache may be corrupted")
		}
		return err
	})
}
