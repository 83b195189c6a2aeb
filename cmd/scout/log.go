// ABOUTME: CLI command for logging performance measurements.
// ABOUTME: Unit defaults to the catalogue unit for known metrics.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/models"
	"github.com/spf13/cobra"
)

var (
	logUnit  string
	logAt    string
	logNotes string
)

var logCmd = &cobra.Command{
	Use:     "log <athlete> <metric> <value>",
	Aliases: []string{"add"},
	Short:   "Log a performance measurement",
	Long: `Log a performance measurement for an athlete.

The athlete is an ID prefix or a name fragment matching one athlete.
Known metrics (see 'scout metrics') fill in their unit automatically;
any other metric name needs --unit.

EXAMPLES:

  scout log ann "100m Time" 12.4
  scout log ab12cd34 "Long Jump" 5.92 --at 2025-01-31
  scout log ann "Plank Hold" 95 --unit seconds --notes "after practice"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		athlete, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}

		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[2])
		}

		unit := defaultUnit(args[1], logUnit)
		if unit == "" {
			return fmt.Errorf("unknown metric %q needs --unit", args[1])
		}

		r := models.NewPerformanceRecord(athlete.ID, args[1], value, unit).WithNotes(logNotes)

		// backdated entry
		if logAt != "" {
			t, err := models.ParseDate(logAt)
			if err != nil {
				return fmt.Errorf("invalid date: %s", logAt)
			}
			r.WithDate(t)
		}

		if err := svc.LogRecord(r); err != nil {
			return fmt.Errorf("failed to log performance: %w", err)
		}

		color.Green("✓ Logged %s for %s", r.MetricName, athlete.Name)
		fmt.Printf("  %s %s %g %s\n",
			color.New(color.Faint).Sprint(r.ID.String()[:8]),
			r.Date.UTC().Format("2006-01-02"),
			r.MetricValue, r.MetricUnit)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVarP(&logUnit, "unit", "u", "", "unit (defaults to the catalogue unit)")
	logCmd.Flags().StringVar(&logAt, "at", "", "measurement date (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "optional notes")
	rootCmd.AddCommand(logCmd)
}
