package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nameit/config"
	"nameit/provider"
)

// SQLiteStore keeps provider configuration records in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS provider_configs (
		key TEXT PRIMARY KEY,
		provider_name TEXT NOT NULL,
		api TEXT NOT NULL DEFAULT '',
		api_key_header TEXT NOT NULL DEFAULT '',
		api_key TEXT NOT NULL DEFAULT '',
		need_api_key INTEGER NOT NULL DEFAULT 0,
		timeout INTEGER NOT NULL DEFAULT 0,
		active_model TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(key string, cfg provider.Config) error {
	query := `
	INSERT OR REPLACE INTO provider_configs (key, provider_name, api, api_key_header, api_key, need_api_key, timeout, active_model, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		key,
		cfg.ProviderName,
		cfg.API,
		cfg.APIKeyHeader,
		cfg.APIKey,
		cfg.NeedAPIKey,
		cfg.Timeout,
		cfg.ActiveModel,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save provider config: %w", err)
	}

	config.DebugLog.Debug().Str("key", key).Str("provider", cfg.ProviderName).Msg("saved provider config to sqlite")
	return nil
}

func (s *SQLiteStore) Load(key string) (provider.Config, bool, error) {
	query := `
	SELECT provider_name, api, api_key_header, api_key, need_api_key, timeout, active_model
	FROM provider_configs
	WHERE key = ?
	`

	var cfg provider.Config
	err := s.db.QueryRow(query, key).Scan(
		&cfg.ProviderName,
		&cfg.API,
		&cfg.APIKeyHeader,
		&cfg.APIKey,
		&cfg.NeedAPIKey,
		&cfg.Timeout,
		&cfg.ActiveModel,
	)

	if err == sql.ErrNoRows {
		return provider.Config{}, false, nil
	}

	if err != nil {
		return provider.Config{}, false, fmt.Errorf("failed to load provider config: %w", err)
	}

	return cfg, true, nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM provider_configs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete provider config: %w", err)
	}

	config.DebugLog.Debug().Str("key", key).Msg("deleted provider config from sqlite")
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
