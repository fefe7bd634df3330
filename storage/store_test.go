package storage

import (
	"os"
	"path/filepath"
	"testing"

	"nameit/config"
	"nameit/provider"
)

func sampleConfig() provider.Config {
	return provider.Config{
		ProviderName: "Ollama",
		API:          "http://localhost:11434/api",
		APIKeyHeader: "X-Api-Key",
		APIKey:       "secret",
		NeedAPIKey:   true,
		Timeout:      2500,
		ActiveModel:  "llama3:8b",
	}
}

func testStoreRoundTrip(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Load("nameit-config"); err != nil || ok {
		t.Fatalf("Load() on empty store = ok %v, err %v; want false, nil", ok, err)
	}

	want := sampleConfig()
	if err := s.Save("nameit-config", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := s.Load("nameit-config")
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	// Overwrite replaces the whole record.
	updated := provider.Config{ProviderName: "Ollama", API: "http://other:11434/api"}
	if err := s.Save("nameit-config", updated); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _, _ = s.Load("nameit-config")
	if got != updated {
		t.Errorf("Load() after overwrite = %+v, want %+v", got, updated)
	}

	if _, ok, _ := s.Load("other-key"); ok {
		t.Error("Load(other-key) found a record")
	}

	if err := s.Delete("nameit-config"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, err := s.Load("nameit-config"); err != nil || ok {
		t.Errorf("Load() after Delete() = ok %v, err %v; want false, nil", ok, err)
	}
	if err := s.Delete("nameit-config"); err != nil {
		t.Errorf("Delete() of a missing key error = %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nameit.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	testStoreRoundTrip(t, s)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nameit.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := s.Save("nameit-config", sampleConfig()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, ok, err := s.Load("nameit-config")
	if err != nil || !ok || got != sampleConfig() {
		t.Errorf("Load() after reopen = %+v, %v, %v", got, ok, err)
	}
}

func TestTOMLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.toml")
	testStoreRoundTrip(t, NewTOMLStore(path))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("state file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("state file permissions = %o, want 600", perm)
	}
}

func TestTOMLStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	if err := os.WriteFile(path, []byte("configs = [[["), 0600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewTOMLStore(path).Load("nameit-config"); err == nil {
		t.Error("Load() on malformed file should fail")
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemoryStore())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		kind    config.StoreKind
		want    string
		wantErr bool
	}{
		{config.StoreSQLite, "*storage.SQLiteStore", false},
		{config.StoreTOML, "*storage.TOMLStore", false},
		{config.StoreKind("redis"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, err := Open(&config.Config{DataDirectory: dir, Store: tt.kind})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer s.Close()

			switch tt.kind {
			case config.StoreSQLite:
				if _, ok := s.(*SQLiteStore); !ok {
					t.Errorf("Open() = %T, want %s", s, tt.want)
				}
			case config.StoreTOML:
				if _, ok := s.(*TOMLStore); !ok {
					t.Errorf("Open() = %T, want %s", s, tt.want)
				}
			}
		})
	}
}
