package storage

import (
	"fmt"
	"path/filepath"

	"nameit/config"
	"nameit/provider"
)

// Store persists provider configuration records by key.
type Store interface {
	// Load returns the record saved under key. ok is false when nothing has
	// been saved yet.
	Load(key string) (cfg provider.Config, ok bool, err error)
	Save(key string, cfg provider.Config) error
	// Delete removes the record saved under key. Deleting a missing key is
	// not an error.
	Delete(key string) error
	Close() error
}

// Open returns the store selected by cfg.Store, rooted in the data directory.
func Open(cfg *config.Config) (Store, error) {
	dataDir := cfg.DataDir()

	switch cfg.Store {
	case config.StoreSQLite, "":
		return NewSQLiteStore(filepath.Join(dataDir, "nameit.db"))
	case config.StoreTOML:
		return NewTOMLStore(filepath.Join(dataDir, "state.toml")), nil
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store)
	}
}
