package provider

import (
	"context"
	"sync/atomic"

	"nameit/config"
)

// BaseProvider is the no-op Provider. It is the safe default before a real
// backend is chosen and the part concrete adapters embed for Setup.
type BaseProvider struct {
	cfg    Config
	handle atomic.Pointer[Handle]
}

// NewBaseProvider creates a provider that can probe a server but exposes no
// models and answers no questions.
func NewBaseProvider(cfg Config) *BaseProvider {
	return &BaseProvider{cfg: cfg}
}

// Setup always builds a new handle, even for an empty base URL, swaps it in
// and probes it. Only a Reachable probe yields true.
func (b *BaseProvider) Setup(ctx context.Context) bool {
	h := NewHandle(b.cfg)
	b.handle.Store(h)

	reach, err := h.Probe(ctx)
	if err != nil {
		config.DebugLog.Debug().
			Err(err).
			Str("provider", b.cfg.ProviderName).
			Str("api", b.cfg.API).
			Stringer("reachability", reach).
			Msg("liveness probe failed")
	}
	return reach == Reachable
}

func (b *BaseProvider) ListAvailableModels(ctx context.Context) []string {
	return []string{}
}

func (b *BaseProvider) AskQuestion(ctx context.Context, prompt, question, model string, onResult func(string)) bool {
	return false
}

func (b *BaseProvider) Config() Config {
	return b.cfg
}

// Handle returns the handle built by the last Setup, or nil before it.
func (b *BaseProvider) Handle() *Handle {
	return b.handle.Load()
}
