// ABOUTME: CLI command for athlete performance statistics.
// ABOUTME: Prints total, average, best, worst and improvement per series or per metric.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/analytics"
	"github.com/harperreed/scout/internal/models"
	"github.com/spf13/cobra"
)

var (
	statsMetric   string
	statsByMetric bool
	statsJSON     bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <athlete>",
	Short: "Summarize an athlete's performance",
	Long: `Summarize an athlete's performance series.

Improvement is the percentage change from the first to the last record and is
"undefined" when the first value is zero. For catalogue metrics with a known
direction (e.g. 100m Time: lower is better) best and worst follow that direction;
otherwise best is the maximum.

Without --metric every record is summarized as one series. Use --by-metric to get
one summary per metric and unit instead.

EXAMPLES:

  scout stats ann --metric "100m Time"
  scout stats ann --by-metric
  scout stats ann --by-metric --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		athlete, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}
		ref := athlete.ID.String()

		if statsByMetric {
			summaries, err := svc.StatsByMetric(ref)
			if err != nil {
				return err
			}
			if statsJSON {
				return printJSON(summaries)
			}
			fmt.Println(color.New(color.Bold).Sprint(athlete.Name))
			for _, ms := range summaries {
				printSummary(ms.Key.String(), ms.Summary)
			}
			return nil
		}

		summary, err := svc.Stats(ref, statsMetric)
		if err != nil {
			return err
		}
		if statsJSON {
			return printJSON(summary)
		}
		fmt.Println(color.New(color.Bold).Sprint(athlete.Name))
		printSummary(models.MetricKey{Name: summary.MetricName, Unit: summary.MetricUnit}.String(), summary)
		return nil
	},
}

func printSummary(label string, s *analytics.Summary) {
	faint := color.New(color.Faint)
	fmt.Printf("\n  %s\n", label)
	fmt.Printf("    Total:       %d\n", s.Total)
	fmt.Printf("    Average:     %.2f\n", s.Average)
	fmt.Printf("    Best:        %g\n", s.Best)
	fmt.Printf("    Worst:       %g\n", s.Worst)

	imp := s.Improvement.String()
	switch {
	case !s.Improvement.Defined:
		imp = faint.Sprint(imp)
	case s.Improvement.Positive:
		imp = color.GreenString(imp)
	case s.Improvement.Percent < 0:
		imp = color.RedString(imp)
	}
	fmt.Printf("    Improvement: %s\n", imp)
	if s.Direction != models.DirectionUnspecified {
		fmt.Printf("    %s\n", faint.Sprint(s.Direction))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	statsCmd.Flags().StringVarP(&statsMetric, "metric", "m", "", "restrict to one metric")
	statsCmd.Flags().BoolVar(&statsByMetric, "by-metric", false, "one summary per metric and unit")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output JSON")
	rootCmd.AddCommand(statsCmd)
}
