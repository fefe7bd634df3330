package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"nameit/config"
	"nameit/insert"
	"nameit/provider"
	"nameit/session"
	"nameit/storage"
	"nameit/ui"
)

const Version = "0.1.0"

// app holds what every subcommand needs once config is loaded.
type app struct {
	store    storage.Store
	registry *provider.Registry
}

func main() {
	// A .env next to the binary is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ui.FormatWarning(fmt.Sprintf("failed to load .env: %v", err)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{registry: provider.DefaultRegistry()}
	root := newRootCmd(a)

	err := root.ExecuteContext(ctx)
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			config.DebugLog.Warn().Err(cerr).Msg("failed to close store")
		}
	}
	if err != nil {
		if !alreadyReported(err) {
			fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

// alreadyReported reports whether the session layer has shown err to the
// user through the prompter.
func alreadyReported(err error) bool {
	switch {
	case errors.Is(err, session.ErrCancelled):
		return true
	case errors.Is(err, session.ErrNotConfigured),
		errors.Is(err, session.ErrUnreachable),
		errors.Is(err, session.ErrRequestFailed),
		errors.Is(err, session.ErrAPIKeyRequired),
		errors.Is(err, session.ErrNoModels):
		return true
	}
	return false
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nameit",
		Short:         "Ask a local LLM to name things in your code",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newSetupCmd(a),
		newWriteCmd(a),
		newModelsCmd(a),
		newProvidersCmd(a),
		newResetCmd(a),
		newConfigCmd(),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	config.InitDebugLog(cfg.DataDir())

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.store = store

	if config.Debug {
		fmt.Fprintln(os.Stderr, ui.DimStyle.Render("debug log: "+filepath.Join(cfg.DataDir(), "debug.log")))
	}

	config.DebugLog.Debug().
		Str("data_dir", cfg.DataDir()).
		Str("store", string(cfg.Store)).
		Msg("nameit started")

	return nil
}

func (a *app) orchestrator(prompter session.Prompter) *session.Orchestrator {
	o := session.New(a.registry, a.store, prompter)
	o.Wait = ui.Wait
	return o
}

func newSetupCmd(a *app) *cobra.Command {
	var (
		preset  ui.PresetPrompter
		timeout time.Duration
		opts    session.SetupOptions
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Choose a provider, its URL and a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset.APISet = cmd.Flags().Changed("api")
			preset.Next = ui.NewFormPrompter(os.Stderr)
			opts.Timeout = int(timeout / time.Millisecond)

			cfg, err := a.orchestrator(&preset).Setup(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, ui.FormatSuccess(fmt.Sprintf("Using %s at %s with model %s", cfg.ProviderName, cfg.API, cfg.ActiveModel)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&preset.Provider, "provider", "", "provider name (see 'nameit providers')")
	f.StringVar(&preset.API, "api", "", "API base URL; empty uses the provider default")
	f.StringVar(&preset.Model, "model", "", "model name; partial names are matched")
	f.DurationVar(&timeout, "timeout", 0, "request timeout, 0 for none")
	f.StringVar(&opts.APIKeyHeader, "api-key-header", "", "header to send the API key in")
	f.StringVar(&opts.APIKey, "api-key", "", "API key value")

	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	var (
		preset    ui.PresetPrompter
		lang      string
		file      string
		line      int
		col       int
		toClip    bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "write [question...]",
		Short: "Ask for a name and write the answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			preset.Question = strings.Join(args, " ")
			preset.AssumeYes = assumeYes
			preset.Next = ui.NewFormPrompter(os.Stderr)

			if lang == "" && file != "" {
				lang = ui.DetectLanguage(file)
			}

			var sink session.Sink
			switch {
			case file != "":
				sink = insert.FileSink{Path: file, Line: line, Column: col}
			case toClip:
				sink = insert.ClipboardSink{}
			default:
				sink = insert.WriterSink{W: os.Stdout}
			}

			if err := a.orchestrator(&preset).Write(cmd.Context(), lang, sink); err != nil {
				return err
			}

			if file != "" || toClip {
				if isatty.IsTerminal(os.Stderr.Fd()) {
					fmt.Fprintln(os.Stderr, ui.FormatSuccess("Inserted"))
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&lang, "lang", "", "language id of the code; detected from --file when empty")
	f.StringVar(&file, "file", "", "insert the answer into this file instead of printing it")
	f.IntVar(&line, "line", 0, "1-based line to insert at; 0 appends")
	f.IntVar(&col, "col", 0, "1-based column to insert at; 0 is end of line")
	f.BoolVar(&toClip, "clipboard", false, "copy the answer to the clipboard")
	f.BoolVarP(&assumeYes, "yes", "y", false, "run setup without asking when needed")
	cmd.MarkFlagsMutuallyExclusive("file", "clipboard")

	return cmd
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models of the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := a.orchestrator(ui.NewFormPrompter(os.Stderr)).Models(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(os.Stdout, m)
			}
			return nil
		},
	}
}

func newProvidersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the available providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.Names() {
				e, _ := a.registry.Lookup(name)
				fmt.Fprintf(os.Stdout, "%s\t%s\n", name, ui.DimStyle.Render(e.DefaultAPIURL))
			}
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.orchestrator(ui.NewFormPrompter(os.Stderr)).Reset(); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, ui.FormatSuccess("Provider configuration removed, run 'nameit setup' to choose one again"))
			return nil
		},
	}
}

// newConfigCmd shows or edits settings.toml. It skips the root pre-run so a
// settings file with a bad store can still be repaired.
func newConfigCmd() *cobra.Command {
	var (
		store   string
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change nameit settings",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSystemConfig()
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("store") {
				kind, err := config.ParseStoreKind(store)
				if err != nil {
					return err
				}
				settings.Store = kind
				changed = true
			}
			if cmd.Flags().Changed("data-dir") {
				settings.DataDirectory = dataDir
				changed = true
			}

			if changed {
				if err := config.SaveSystemConfig(settings); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, ui.FormatSuccess("Saved "+config.GetSettingsFilePath()))
			}

			fmt.Fprintf(os.Stdout, "settings\t%s\n", config.GetSettingsFilePath())
			fmt.Fprintf(os.Stdout, "data_directory\t%s\n", settings.DataDirectory)
			fmt.Fprintf(os.Stdout, "store\t%s\n", settings.Store)
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "where the provider config is kept: sqlite or toml")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for the store and debug log")

	return cmd
}
