package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/config"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/logger"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/persistence/badger"
)

// runEnv carries the per-invocation configuration, leaf encoding and the
// optional snapshot cache.
type runEnv struct {
	cfg      *config.Config
	encoding airdrop.Encoding
	store    persistence.Store
	log      *zap.Logger
}

func setup(c *cli.Context) (*runEnv, error) {
	cfg, err := parseConfig(c)
	if err != nil {
		return nil, err
	}

	hashFn, err := cfg.HashAlgo.Func()
	if err != nil {
		return nil, err
	}

	env := &runEnv{
		cfg: cfg,
		encoding: airdrop.Encoding{
			Prefix: cfg.AddressPrefix,
			Hash:   hashFn,
		},
	}

	env.log, err = logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, err
	}

	if cfg.CacheDir != "" {
		store, err := badger.NewBadgerStore(cfg.CacheDir, env.log)
		if err != nil {
			return nil, err
		}
		env.store = store
	}

	return env, nil
}

// tree builds the merkle tree for the configured allocation file, going
// through the snapshot cache when one is configured. A stale or corrupt
// cache entry falls back to a full rebuild from the file.
func (e *runEnv) tree() (*merkle.MerkleTree, error) {
	if e.store == nil {
		return e.buildFromFile("")
	}

	sourceDigest, err := airdrop.SourceDigest(e.cfg.File)
	if err != nil {
		return nil, err
	}

	snap, err := e.store.LoadSnapshot(sourceDigest)
	if err != nil {
		return nil, err
	}
	if snap != nil && snap.HashAlgo == e.cfg.HashAlgo.String() {
		tree, err := snap.RestoreTree(e.encoding.Hash)
		if err == nil {
			e.log.Sugar().Debugw("Tree restored from snapshot cache",
				"source_digest", sourceDigest, "leaves", len(tree.Leaves))
			return tree, nil
		}
		e.log.Sugar().Warnw("Cached snapshot unusable, rebuilding",
			"source_digest", sourceDigest, "error", err)
	}

	return e.buildFromFile(sourceDigest)
}

func (e *runEnv) buildFromFile(sourceDigest string) (*merkle.MerkleTree, error) {
	records, err := airdrop.LoadRecords(e.cfg.File)
	if err != nil {
		return nil, err
	}

	tree, err := e.encoding.BuildTree(records)
	if err != nil {
		return nil, err
	}

	if e.store != nil && sourceDigest != "" {
		snap := persistence.SnapshotFromTree(sourceDigest, e.cfg.HashAlgo.String(), tree)
		if err := e.store.SaveSnapshot(snap); err != nil {
			// Cache write failure never fails the run.
			e.log.Sugar().Warnw("Failed to cache snapshot", "error", err)
		}
	}

	return tree, nil
}

func (e *runEnv) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}
