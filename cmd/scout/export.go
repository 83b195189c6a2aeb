// ABOUTME: CLI commands for exporting and importing scout data.
// ABOUTME: Per-athlete CSV, JSON and YAML, plus full-store JSON and YAML backups.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportMetric string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export <athlete|all> <format>",
	Short: "Export performance data",
	Long: `Export performance data in various formats.

FORMATS:

  csv        One athlete's records: Date, Metric Name, Value, Unit, Notes
  json       Full JSON export (suitable for backup/restore via 'scout import')
  yaml       YAML export (human-readable)

  Use "all" instead of an athlete to export every profile and record (json/yaml).

OPTIONS:

  --output, -o   Write to file instead of the default
  --metric, -m   Restrict to one metric (single athlete only)
  --stdout       Print CSV instead of writing "<Name>_performance_<YYYY-MM-DD>.csv"

EXAMPLES:

  scout export ann csv                      # Writes "Ann Lee_performance_2025-03-01.csv"
  scout export ann csv --stdout             # Print CSV
  scout export ann json -o ann.json         # One athlete, importable
  scout export all json -o backup.json      # Full backup
  scout export all yaml                     # Everything as YAML`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, format := args[0], strings.ToLower(args[1])

		if format == "csv" {
			if target == "all" {
				return fmt.Errorf("csv export needs a single athlete")
			}
			return exportCSV(target)
		}

		var data []byte
		var err error

		switch format {
		case "json":
			if target == "all" {
				data, err = storage.ExportJSON(repo)
				break
			}
			var d *storage.ExportData
			if d, err = athleteExport(target); err == nil {
				data, err = json.MarshalIndent(d, "", "  ")
			}
		case "yaml":
			if target == "all" {
				data, err = storage.ExportYAML(repo)
				break
			}
			var d *storage.ExportData
			if d, err = athleteExport(target); err == nil {
				data, err = storage.MarshalYAML(d)
			}
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, or yaml)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

func exportCSV(target string) error {
	athlete, err := resolveAthlete(target)
	if err != nil {
		return err
	}

	export, err := svc.ExportCSV(athlete.ID.String(), exportMetric)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportStdout {
		_, err := os.Stdout.Write(export.Data)
		return err
	}

	path := exportOutput
	if path == "" {
		path = export.Filename
	}
	if err := os.WriteFile(path, export.Data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	color.Green("✓ Exported %s to %s", athlete.Name, path)
	return nil
}

// athleteExport builds an importable export holding one athlete and their records.
func athleteExport(target string) (*storage.ExportData, error) {
	athlete, err := resolveAthlete(target)
	if err != nil {
		return nil, err
	}
	h, err := svc.Records(athlete.ID.String(), exportMetric, 0)
	if err != nil {
		return nil, err
	}
	records := h.Records
	if records == nil {
		records = []*models.PerformanceRecord{}
	}
	return &storage.ExportData{
		Version:    storage.ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "scout",
		Profiles:   []*models.AthleteProfile{h.Athlete},
		Records:    records,
	}, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import scout data from JSON",
	Long: `Import profiles and records from a JSON export.

Duplicate entries (same ID or email) will cause an error.

EXAMPLES:

  scout import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := storage.ImportJSON(repo, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file")
	exportCmd.Flags().StringVarP(&exportMetric, "metric", "m", "", "restrict to one metric (single athlete)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "print CSV to stdout")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
