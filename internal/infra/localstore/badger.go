// internal/infra/localstore/badger.go
package localstore

import (
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for the embedded BadgerDB instance backing
// guest-cart slots.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory.
	Path string

	// InMemory disables disk persistence. Useful for tests.
	InMemory bool

	// SyncWrites makes writes durable before returning.
	SyncWrites bool
}

// DefaultConfig returns production defaults: on-disk, synchronous writes
// (a guest cart lost on crash is a lost sale).
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a test configuration with no disk I/O.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Open initializes the BadgerDB instance.
func Open(cfg Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("localstore: path is required for persistent mode")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("localstore: open badger: %w", err)
	}

	if cfg.InMemory {
		log.Printf("[localstore] badger opened (in-memory)")
	} else {
		log.Printf("[localstore] badger opened (path: %s)", cfg.Path)
	}
	return db, nil
}
