// Package provider defines the contract for naming-assistant backends.
//
// nameit talks to model servers through a common Provider interface so the
// setup and write flows stay backend-agnostic. Each backend is an independent
// implementer; the Registry maps a human-readable backend name to a factory
// plus static metadata (default endpoint, whether an API key is required,
// probe timeout).
//
// # Outcomes instead of errors
//
// Every Provider operation is a fault barrier. Transport, HTTP and decoding
// failures are logged through config.DebugLog and converted to the small
// vocabulary the callers act on:
//   - Setup returns false when the server is unreachable
//   - ListAvailableModels returns an empty slice
//   - AskQuestion returns false and never invokes its callback
//
// # Architecture
//
//   - provider.Provider defines the contract (interface)
//   - provider.BaseProvider is the no-op default; adapters embed it
//   - provider.OllamaProvider implements the local model server protocol
//   - provider.Registry / DefaultRegistry() create providers by name
//
// # Usage
//
//	reg := provider.DefaultRegistry()
//	p, err := reg.NewProvider(provider.Config{
//	    ProviderName: "Ollama",
//	    API:          "http://localhost:11434/api",
//	})
//	if err != nil {
//	    // unknown backend
//	}
//	if !p.Setup(ctx) {
//	    // no server at p.Config().API
//	}
//	p.AskQuestion(ctx, prompt, question, "llama3:8b", func(code string) {
//	    fmt.Println(code)
//	})
package provider

import "context"

// Provider is the capability set every backend exposes.
type Provider interface {
	// Setup builds a fresh connection handle from the current Config and
	// probes the server. It returns false when the server cannot be reached.
	Setup(ctx context.Context) bool

	// ListAvailableModels returns the model identifiers the backend exposes,
	// in server order. It is best effort and never returns nil.
	ListAvailableModels(ctx context.Context) []string

	// AskQuestion sends a single-turn request. On success onResult is called
	// exactly once with the extracted answer and true is returned. On failure
	// false is returned and onResult is not called.
	AskQuestion(ctx context.Context, prompt, question, model string, onResult func(string)) bool

	// Config returns the configuration the provider was built with.
	Config() Config
}

// Config is the provider configuration record. It is also the shape
// persisted by the storage package between invocations.
type Config struct {
	ProviderName string `json:"providerName" toml:"provider_name"`
	API          string `json:"api,omitempty" toml:"api,omitempty"`
	APIKeyHeader string `json:"apiKeyHeader,omitempty" toml:"api_key_header,omitempty"`
	APIKey       string `json:"apiKey,omitempty" toml:"api_key,omitempty"`
	NeedAPIKey   bool   `json:"needAPIKey,omitempty" toml:"need_api_key,omitempty"`
	Timeout      int    `json:"timeout,omitempty" toml:"timeout,omitempty"` // milliseconds, 0 = none
	ActiveModel  string `json:"activeModel,omitempty" toml:"active_model,omitempty"`
}

// HasAPIKey reports whether both halves of the auth header are present.
// A header name without a key (or the reverse) is ignored.
func (c Config) HasAPIKey() bool {
	return c.APIKey != "" && c.APIKeyHeader != ""
}
