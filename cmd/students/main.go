// Package main is the entry point for the students CLI.
//
// STARTUP SEQUENCE (every command):
//  1. Load configuration (--config flag, CONFIG_PATH, or env defaults)
//  2. Initialise the logger
//  3. Open the persister (flat file or SQLite) and load the records
//
// Usage:
//
//	students                    # interactive menu
//	students list               # print every record and exit
//	students serve              # JSON API over the same records
//	students version            # show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/csvfile"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage student records from a text menu",
	Long: `students keeps a list of student records (id, name, age, email,
course) and saves them to a comma-separated file.

Run without a subcommand for the interactive menu.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "students %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the configuration YAML file (or set CONFIG_PATH)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error.
		os.Exit(1)
	}
}

// app is what every command starts from.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	store     *memory.Store
	persister storage.Persister
}

// setup loads config, builds the logger, and opens the persister. The
// store is returned empty; callers decide how to report the load.
func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := setupLogger(cfg.Env)
	log.Debug("starting students",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("backend", cfg.StorageBackend))

	persister, err := openPersister(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: memory.New(), persister: persister}, nil
}

// load fills the store from the persister for non-interactive commands.
func (a *app) load() error {
	lines, err := a.persister.Load()
	if err != nil {
		return err
	}
	n := a.store.Deserialize(lines)
	a.log.Info("students loaded",
		slog.Int("loaded", n),
		slog.Int("skipped", len(lines)-n),
		slog.String("location", a.persister.Location()))
	return nil
}

func openPersister(cfg *config.Config) (storage.Persister, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return csvfile.New(cfg.StoragePath), nil
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
// Logs go to stderr so they never interleave with the menu on stdout.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
