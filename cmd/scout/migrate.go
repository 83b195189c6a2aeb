// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies every profile and record from the configured backend to another.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/config"
	"github.com/harperreed/scout/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every profile and performance record from the configured backend
to another backend.

IMPORTANT:

  - The destination must be empty; existing data is never overwritten
  - Run with --dry-run first to see what would be migrated
  - The source is left untouched

USAGE:

  scout migrate --to charm --dry-run   # Preview what would be migrated
  scout migrate --to charm             # SQLite -> Charm KV
  scout --backend charm migrate --to sqlite

AFTER MIGRATION:

  Switch backends by setting "backend" in ~/.config/scout/config.yaml
  or SCOUT_BACKEND.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if err := dstCfg.Validate(); err != nil {
			return err
		}
		if dstCfg.GetBackend() == cfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", cfg.GetBackend())
		}

		data, err := storage.CollectData(repo)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			fmt.Printf("Would migrate from %s to %s:\n", cfg.GetBackend(), dstCfg.GetBackend())
			fmt.Printf("  Profiles: %d\n", len(data.Profiles))
			fmt.Printf("  Records:  %d\n", len(data.Records))
			if dstCfg.GetBackend() == config.BackendSQLite {
				nonEmpty, err := storage.IsDirNonEmpty(dstCfg.GetDataDir())
				if err == nil && nonEmpty {
					color.Yellow("\n⚠ %s already contains files", dstCfg.GetDataDir())
				}
			}
			return nil
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", dstCfg.GetBackend(), err)
		}
		defer dst.Close()

		existing, err := dst.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to read destination: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("destination %s already has %d profiles", dstCfg.GetBackend(), len(existing))
		}

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", cfg.GetBackend(), dstCfg.GetBackend())
		fmt.Printf("  Profiles: %d\n", summary.Profiles)
		fmt.Printf("  Records:  %d\n", summary.Records)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or charm")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
