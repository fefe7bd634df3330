package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// StoreKind selects where the provider configuration record is persisted.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreTOML   StoreKind = "toml"
)

// ParseStoreKind accepts a store name in any case. Empty selects sqlite.
func ParseStoreKind(s string) (StoreKind, error) {
	switch kind := StoreKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case "":
		return StoreSQLite, nil
	case StoreSQLite, StoreTOML:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown store %q (expected %q or %q)", s, StoreSQLite, StoreTOML)
	}
}

type SystemConfig struct {
	DataDirectory string    `toml:"data_directory"`
	Store         StoreKind `toml:"store"`
}

type Config struct {
	DataDirectory string
	Store         StoreKind
}

var Debug = false

// DebugLog is a no-op logger until InitDebugLog enables it.
var DebugLog = zerolog.Nop()

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("NAMEIT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if store := os.Getenv("NAMEIT_STORE"); store != "" {
		c.Store = StoreKind(store)
	}
}

func CheckDebug() bool {
	debug := os.Getenv("NAMEIT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: request bodies end up in here
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = zerolog.New(f).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
	DebugLog.Debug().
		Str("NAMEIT_DEBUG", os.Getenv("NAMEIT_DEBUG")).
		Str("path", logPath).
		Msg("debug logging started")
}

func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{
		DataDirectory: systemCfg.DataDirectory,
		Store:         systemCfg.Store,
	}
	cfg.applyEnvOverrides()

	if cfg.DataDirectory == "" {
		cfg.DataDirectory = GetDefaultDataDir()
	}

	kind, err := ParseStoreKind(string(cfg.Store))
	if err != nil {
		return nil, err
	}
	cfg.Store = kind

	dataDir := cfg.DataDir()
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
