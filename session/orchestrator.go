// Package session drives the setup and write flows on top of the provider
// contract. It owns all user-facing messaging; providers below it only
// return outcomes.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nameit/config"
	"nameit/provider"
)

// StateKey is the key the provider configuration record is saved under.
const StateKey = "nameit-config"

// Store loads, saves and deletes the provider configuration record.
type Store interface {
	Load(key string) (provider.Config, bool, error)
	Save(key string, cfg provider.Config) error
	Delete(key string) error
}

// Prompter is the host UI: pickers, inputs and messages.
type Prompter interface {
	SelectProvider(names []string) (string, error)
	// InputAPIURL asks for the base URL. An empty answer means "use
	// defaultURL".
	InputAPIURL(defaultURL string) (string, error)
	SelectModel(models []string) (string, error)
	InputQuestion() (string, error)
	Confirm(message string) (bool, error)
	Warn(message string)
	Error(message string)
}

// Sink receives the extracted answer.
type Sink interface {
	Insert(text string) error
}

// SetupOptions carries the parts of the configuration that are not asked
// for interactively.
type SetupOptions struct {
	Timeout      int // milliseconds
	APIKeyHeader string
	APIKey       string
}

// Orchestrator sequences registry lookup, reachability checks, model
// selection and questions.
type Orchestrator struct {
	registry *provider.Registry
	store    Store
	prompter Prompter

	// Wait runs fn while showing title, e.g. behind a spinner. Nil runs fn
	// directly.
	Wait func(title string, fn func())
}

func New(registry *provider.Registry, store Store, prompter Prompter) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		store:    store,
		prompter: prompter,
	}
}

func (o *Orchestrator) wait(title string, fn func()) {
	if o.Wait == nil {
		fn()
		return
	}
	o.Wait(title, fn)
}

// Setup selects a backend, resolves its URL, checks it is reachable, lets
// the user choose a model and saves the result under StateKey.
func (o *Orchestrator) Setup(ctx context.Context, opts SetupOptions) (provider.Config, error) {
	name, err := o.prompter.SelectProvider(o.registry.Names())
	if err != nil {
		return provider.Config{}, err
	}

	entry, ok := o.registry.Lookup(name)
	if !ok {
		return provider.Config{}, fmt.Errorf("%w: %q", provider.ErrUnknownProvider, name)
	}

	cfg := provider.Config{
		ProviderName: entry.Name,
		NeedAPIKey:   entry.NeedAPIKey,
		Timeout:      opts.Timeout,
		APIKeyHeader: opts.APIKeyHeader,
		APIKey:       opts.APIKey,
	}

	api, err := o.prompter.InputAPIURL(entry.DefaultAPIURL)
	if err != nil {
		return cfg, err
	}
	api = strings.TrimSpace(api)
	if api == "" {
		o.prompter.Warn(fmt.Sprintf("No API url was provided, default url will be %s", entry.DefaultAPIURL))
		api = entry.DefaultAPIURL
	}
	cfg.API = api

	// Authenticated backends are an extension point: nothing is asked for
	// here, the key has to come in through SetupOptions.
	if entry.NeedAPIKey && !cfg.HasAPIKey() {
		o.prompter.Error(fmt.Sprintf("%s requires an API key header and value.", entry.Name))
		return cfg, fmt.Errorf("%w: %s", ErrAPIKeyRequired, entry.Name)
	}

	p, err := o.registry.NewProvider(cfg)
	if err != nil {
		return cfg, err
	}

	if !o.probe(ctx, p, entry) {
		o.prompter.Error(fmt.Sprintf("There is no server running on url %s.", cfg.API))
		return cfg, fmt.Errorf("%w: %s", ErrUnreachable, cfg.API)
	}

	var models []string
	o.wait("Fetching models...", func() {
		models = p.ListAvailableModels(ctx)
	})
	if len(models) == 0 {
		o.prompter.Error(fmt.Sprintf("The server at %s did not list any models.", cfg.API))
		return cfg, fmt.Errorf("%w at %s", ErrNoModels, cfg.API)
	}

	model, err := o.prompter.SelectModel(models)
	if err != nil {
		return cfg, err
	}
	cfg.ActiveModel = model

	if err := o.store.Save(StateKey, cfg); err != nil {
		return cfg, fmt.Errorf("failed to save provider config: %w", err)
	}

	config.DebugLog.Info().
		Str("provider", cfg.ProviderName).
		Str("api", cfg.API).
		Str("model", cfg.ActiveModel).
		Msg("provider configured")

	return cfg, nil
}

// Write reloads the saved configuration, re-validates reachability, asks
// the user's question and hands the answer to sink.
//
// When no configuration exists, or the server is unreachable, the user is
// offered to run Setup; if that succeeds the write is retried once.
func (o *Orchestrator) Write(ctx context.Context, languageID string, sink Sink) error {
	return o.write(ctx, languageID, sink, true)
}

func (o *Orchestrator) write(ctx context.Context, languageID string, sink Sink, offerSetup bool) error {
	p, err := o.connect(ctx)
	if err != nil {
		if offerSetup && (errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnreachable)) {
			ran, setupErr := o.offerSetup(ctx)
			if setupErr != nil {
				// err has already been reported through the prompter.
				return fmt.Errorf("setup: %w", setupErr)
			}
			if ran {
				return o.write(ctx, languageID, sink, false)
			}
		}
		return err
	}

	question, err := o.prompter.InputQuestion()
	if err != nil {
		return err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("%w: empty question", ErrCancelled)
	}

	cfg := p.Config()
	prompt := BuildPrompt(languageID, question)

	var ok bool
	var sinkErr error
	o.wait("Thinking...", func() {
		ok = p.AskQuestion(ctx, prompt, question, cfg.ActiveModel, func(answer string) {
			sinkErr = sink.Insert(answer)
		})
	})

	if !ok {
		o.prompter.Error(fmt.Sprintf("%s did not answer the question using model %s.", cfg.ProviderName, cfg.ActiveModel))
		return fmt.Errorf("%w: %s", ErrRequestFailed, cfg.ActiveModel)
	}
	if sinkErr != nil {
		return fmt.Errorf("failed to insert answer: %w", sinkErr)
	}
	return nil
}

// Models lists the models of the configured backend.
func (o *Orchestrator) Models(ctx context.Context) ([]string, error) {
	p, err := o.connect(ctx)
	if err != nil {
		return nil, err
	}

	var models []string
	o.wait("Fetching models...", func() {
		models = p.ListAvailableModels(ctx)
	})
	return models, nil
}

// Reset forgets the saved configuration. The next Write asks to run Setup.
func (o *Orchestrator) Reset() error {
	if err := o.store.Delete(StateKey); err != nil {
		return fmt.Errorf("failed to delete provider config: %w", err)
	}
	config.DebugLog.Info().Msg("provider config reset")
	return nil
}

// connect loads the saved configuration and builds a provider whose Setup
// succeeded. Handles are never kept between invocations.
func (o *Orchestrator) connect(ctx context.Context) (provider.Provider, error) {
	cfg, ok, err := o.store.Load(StateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}
	if !ok {
		o.prompter.Error("There is no provider accessible currently, try running 'nameit setup'.")
		return nil, ErrNotConfigured
	}

	entry, ok := o.registry.Lookup(cfg.ProviderName)
	if !ok {
		o.prompter.Error(fmt.Sprintf("The saved provider %q is not available, run 'nameit setup' again.", cfg.ProviderName))
		return nil, fmt.Errorf("%w: %q", provider.ErrUnknownProvider, cfg.ProviderName)
	}

	p, err := o.registry.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	if !o.probe(ctx, p, entry) {
		o.prompter.Error(fmt.Sprintf("There is no server listening at %s, make sure the server is running or run 'nameit setup' to set up the provider.", cfg.API))
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, cfg.API)
	}

	return p, nil
}

func (o *Orchestrator) offerSetup(ctx context.Context) (bool, error) {
	yes, err := o.prompter.Confirm("Do you want me to run setup for you?")
	if err != nil || !yes {
		return false, err
	}

	if _, err := o.Setup(ctx, SetupOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

// probe runs Setup bounded by the registry timeout for the backend.
func (o *Orchestrator) probe(ctx context.Context, p provider.Provider, entry provider.Entry) bool {
	if entry.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, entry.Timeout)
		defer cancel()
	}

	var ok bool
	o.wait(fmt.Sprintf("Connecting to %s...", entry.Name), func() {
		ok = p.Setup(ctx)
	})
	return ok
}
