// ABOUTME: CLI command listing the metric catalogue and sports.
// ABOUTME: Runs without opening storage.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/models"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List known metrics and sports",
	Long: `List the metric catalogue with default units and which direction is better,
followed by the sports offered at registration.

Metrics outside the catalogue can still be logged with an explicit --unit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)

		fmt.Println(color.New(color.Bold).Sprint("METRICS"))
		for _, m := range models.AllMetrics {
			fmt.Printf("  %s %s %s\n",
				padRight(m.Name, 16),
				padRight(m.Unit, 8),
				faint.Sprint(m.Direction))
		}

		fmt.Println()
		fmt.Println(color.New(color.Bold).Sprint("SPORTS"))
		for _, s := range models.Sports {
			fmt.Printf("  %s\n", s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
