package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"nameit/config"
	"nameit/provider"
)

// TOMLStore keeps provider configuration records in a single TOML file,
// one [configs.<key>] table per record.
type TOMLStore struct {
	path string
	mu   sync.Mutex
}

type tomlState struct {
	Configs map[string]provider.Config `toml:"configs"`
}

func NewTOMLStore(path string) *TOMLStore {
	return &TOMLStore{path: path}
}

func (s *TOMLStore) read() (*tomlState, error) {
	state := &tomlState{Configs: map[string]provider.Config{}}
	if !config.FileExists(s.path) {
		return state, nil
	}

	if _, err := toml.DecodeFile(s.path, state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if state.Configs == nil {
		state.Configs = map[string]provider.Config{}
	}
	return state, nil
}

func (s *TOMLStore) Load(key string) (provider.Config, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return provider.Config{}, false, err
	}

	cfg, ok := state.Configs[key]
	return cfg, ok, nil
}

func (s *TOMLStore) Save(key string, cfg provider.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.Configs[key] = cfg

	if err := s.write(state); err != nil {
		return err
	}

	config.DebugLog.Debug().Str("key", key).Str("path", s.path).Msg("saved provider config to toml")
	return nil
}

func (s *TOMLStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := state.Configs[key]; !ok {
		return nil
	}
	delete(state.Configs, key)

	if err := s.write(state); err != nil {
		return err
	}

	config.DebugLog.Debug().Str("key", key).Str("path", s.path).Msg("deleted provider config from toml")
	return nil
}

// write replaces the state file through a temp file in the same directory.
func (s *TOMLStore) write(state *tomlState) error {
	if err := config.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// 0600: the record may carry an API key
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(state); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *TOMLStore) Close() error {
	return nil
}
