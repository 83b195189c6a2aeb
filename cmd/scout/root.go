// ABOUTME: Root Cobra command for the scout CLI.
// ABOUTME: Loads config and manages the storage and service lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/scout/internal/config"
	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/service"
	"github.com/harperreed/scout/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	flagBackend  string
	flagDataDir  string
	flagLogLevel string

	cfg  *config.Config
	repo storage.Repository
	svc  *service.Service
)

// skipStorage lists commands that run without opening the store.
var skipStorage = map[string]bool{
	"help":       true,
	"completion": true,
	"metrics":    true,
	"unlink":     true,
	"repair":     true,
	"reset":      true,
	"wipe":       true,
	// assistant setup
	"install-skill": true,
}

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Athlete performance tracking and talent discovery",
	Long: `Scout tracks athlete performance and helps coaches discover talent.

WHAT IT DOES:

  Profiles     register athletes (sport, district, age) and coaches (team, district)
  Discovery    find athletes by sport, district, maximum age and name
  Performance  log measurements such as 100m Time, Long Jump or Batting Average
  Analytics    summary stats, improvement, chart series and CSV export

QUICK START:

  $ scout athlete register "Ann Lee" --sport Cricket --district Kandy --age 17
  $ scout log "Ann Lee" "Runs Scored" 42 --at 2025-01-03   # Log a measurement
  $ scout list ann                                       # See the series
  $ scout stats ann --metric "Runs Scored"               # Summary and improvement
  $ scout export ann csv                                 # Write "Ann Lee_performance_<date>.csv"

  Athletes are referenced by ID prefix or by a name fragment matching exactly one athlete.

DISCOVERY:

  $ scout discover --sport Cricket --district Kandy --age 18
  $ scout discover --name ann

SERVING:

  $ scout serve                # HTTP API on :8080
  $ scout mcp                  # MCP server on stdio

  For Claude Desktop or other MCP-compatible assistants:

  {
    "mcpServers": {
      "scout": { "command": "scout", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite by default at ~/.local/share/scout/scout.db.
  Set "backend: charm" in ~/.config/scout/config.yaml (or SCOUT_BACKEND=charm)
  to store and sync through Charm KV instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logger.Init(os.Stderr); err != nil {
			return err
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			return err
		}

		// Skip storage init for commands that don't need it
		if skipStorage[cmd.Name()] {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		svc = service.New(repo, service.WithLogger(logger.Named("cli")))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

// closeStorage releases the store opened by PersistentPreRunE.
func closeStorage() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo, svc = nil, nil
	return err
}

// applyFlags overrides loaded config with explicitly set persistent flags.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// Execute runs the root command. PostRun hooks are skipped when a command
// fails, so the store is closed here as well.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeStorage(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/scout/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or charm")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "SQLite data directory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}
