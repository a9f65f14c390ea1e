package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmans/library/internal/config"
	"github.com/hmans/library/internal/graph"
	"github.com/hmans/library/internal/librarycore"
	"github.com/hmans/library/internal/logging"
)

var (
	configPath string

	cfg    *config.Config
	logger *slog.Logger
	core   *librarycore.Core
)

var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "An in-memory GraphQL catalogue of books and authors",
	Long: `Library serves a catalogue of books and authors over GraphQL.

The catalogue lives in memory and starts from a built-in seed on every run;
nothing is persisted. Configuration is read from library.toml when present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, err = logging.New(os.Stderr, cfg.Log)
		if err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
		slog.SetDefault(logger)

		core, err = librarycore.New(logger)
		if err != nil {
			return err
		}
		if err := core.LoadSeed(); err != nil {
			return fmt.Errorf("loading seed catalog: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if core != nil {
			return core.Close()
		}
		return nil
	},
}

// newResolver wires the root resolver to the current core.
func newResolver() *graph.Resolver {
	return &graph.Resolver{
		Core:        core,
		SearchLimit: cfg.Search.Limit,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigFile, "Path to the configuration file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
