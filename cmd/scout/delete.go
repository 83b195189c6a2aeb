// ABOUTME: CLI command for deleting performance records.
// ABOUTME: Records are addressed by full ID or a unique ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <record-id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a performance record",
	Long: `Delete a performance record by its ID or ID prefix.

The ID prefix is shown in the first column of 'scout list' output.

EXAMPLES:

  scout delete abc12345                    # Delete by 8-char prefix
  scout rm abc1                            # Short prefix (if unique)

CAUTION:

  This permanently deletes the record. There is no undo.
  If the prefix matches multiple records, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Fetch first to show what we're deleting
		r, err := svc.GetRecord(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %s: %w", args[0], err)
		}

		if err := svc.DeleteRecord(r.ID.String()); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		color.Yellow("✗ Deleted %s", r.MetricName)
		fmt.Printf("  %s %s %g %s\n",
			color.New(color.Faint).Sprint(r.ID.String()[:8]),
			r.Date.UTC().Format("2006-01-02"),
			r.MetricValue, r.MetricUnit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
