package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bunkapp/bunk/internal/config"
	"github.com/bunkapp/bunk/internal/spinner"
	"github.com/bunkapp/bunk/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

// app carries what the subcommands share once the root command has resolved
// configuration. Tests preset cfg and st to bypass the filesystem and Azure.
type app struct {
	configPath string
	noColor    bool

	cfg   *config.Config
	color bool
	st    store.Store
	now   func() time.Time
}

func newRootCommand() *cobra.Command {
	return newRootCommandWithApp(&app{})
}

func newRootCommandWithApp(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bunk",
		Short: "bunk - attendance threshold calculator",
		Long: `bunk tells you how your lecture attendance stands against a required
percentage: how many lectures you can still skip, or how many you must attend
in a row to get back above the line.

The last inputs are remembered between runs unless state is disabled in
.bunk.yaml.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a .bunk.yaml file (default: search upwards from the working directory)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return a.init(cmd.OutOrStdout())
	}

	cmd.AddCommand(newCalcCommand(a))
	cmd.AddCommand(newFormCommand(a))
	cmd.AddCommand(newShareCommand(a))
	cmd.AddCommand(newExportCommand(a))
	cmd.AddCommand(newBatchCommand(a))
	cmd.AddCommand(newStateCommand(a))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// init loads configuration (unless preset) and decides on colour.
func (a *app) init(out io.Writer) error {
	if a.now == nil {
		a.now = time.Now
	}

	if a.cfg == nil {
		cfg, err := loadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.color = colorEnabled(a.cfg.Output.Color, a.noColor, out)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	if err := config.LoadDotEnv(wd); err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(wd)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		slog.Debug("Loaded configuration", "path", cfg.Path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// colorEnabled resolves the colour mode. "auto" colours only a terminal and
// respects NO_COLOR through color.NoColor.
func colorEnabled(mode string, noColor bool, out io.Writer) bool {
	if noColor {
		return false
	}
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isTerminal(out) && !color.NoColor
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// stateStore returns the configured store, or nil when state is disabled.
func (a *app) stateStore() (store.Store, error) {
	if !a.cfg.StateEnabled() {
		return nil, nil
	}
	if a.st != nil {
		return a.st, nil
	}

	switch a.cfg.State.Backend {
	case config.BackendAzBlob:
		b, err := store.NewBlob(a.cfg.State.Blob.AccountURL, a.cfg.State.Blob.Container, nil)
		if err != nil {
			return nil, err
		}
		a.st = &spinnerStore{Store: b, w: os.Stderr, enabled: isTerminal(os.Stderr)}
	default:
		dir, err := a.cfg.StateDir()
		if err != nil {
			return nil, err
		}
		a.st = store.NewFile(dir)
	}
	return a.st, nil
}

// spinnerStore shows a spinner while remote state calls are in flight.
type spinnerStore struct {
	store.Store
	w       io.Writer
	enabled bool
}

func (s *spinnerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := spinner.Wrap(s.w, s.enabled, "Loading saved inputs...", func() error {
		var err error
		data, err = s.Store.Get(ctx, key)
		return err
	})
	return data, err
}

func (s *spinnerStore) Put(ctx context.Context, key string, data []byte) error {
	return spinner.Wrap(s.w, s.enabled, "Saving inputs...", func() error {
		return s.Store.Put(ctx, key, data)
	})
}

func (s *spinnerStore) Delete(ctx context.Context, key string) error {
	return spinner.Wrap(s.w, s.enabled, "Clearing saved inputs...", func() error {
		return s.Store.Delete(ctx, key)
	})
}
