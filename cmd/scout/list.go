// ABOUTME: CLI command for listing an athlete's performance records.
// ABOUTME: Supports filtering by metric and keeping the most recent N records.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listMetric string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list <athlete>",
	Aliases: []string{"ls", "l"},
	Short:   "List an athlete's performance records",
	Long: `List an athlete's performance records, oldest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  METRIC  VALUE  UNIT  (NOTES)

  The ID is an 8-character prefix you can use with delete.

EXAMPLES:

  scout list ann                          # Last 20 records (all metrics)
  scout list ann --metric "100m Time"     # Only 100m times
  scout list ann -n 0                     # Every record`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		athlete, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}

		h, err := svc.Records(athlete.ID.String(), listMetric, listLimit)
		if err != nil {
			return err
		}

		if len(h.Records) == 0 {
			fmt.Println("No performance records found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range h.Records {
			notes := ""
			if n := r.NotesText(); n != "" {
				notes = faint.Sprintf(" (%s)", truncate(n, 30))
			}
			fmt.Printf("%s %s %s %g %s%s\n",
				faint.Sprint(r.ID.String()[:8]),
				faint.Sprint(r.Date.UTC().Format("2006-01-02")),
				padRight(r.MetricName, 16),
				r.MetricValue,
				r.MetricUnit,
				notes)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listMetric, "metric", "m", "", "filter by metric name")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "keep the most recent N records (0 for all)")
	rootCmd.AddCommand(listCmd)
}
