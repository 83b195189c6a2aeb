// ABOUTME: CLI command for chart series of an athlete's performance.
// ABOUTME: Renders date-labelled values as text bars or chart-ready JSON.
package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/analytics"
	"github.com/spf13/cobra"
)

const barWidth = 40

var (
	chartMetric string
	chartJSON   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <athlete>",
	Short: "Show an athlete's series as a chart",
	Long: `Show an athlete's performance series as date-labelled bars.

Without --metric one chart is drawn per metric and unit. With --json the
chart-ready labels and values are printed instead.

EXAMPLES:

  scout chart ann --metric "Long Jump"
  scout chart ann --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		athlete, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}
		ref := athlete.ID.String()

		var charts []*analytics.Chart
		if chartMetric != "" {
			c, err := svc.Chart(ref, chartMetric)
			if err != nil {
				return err
			}
			charts = []*analytics.Chart{c}
		} else {
			charts, err = svc.ChartsByMetric(ref)
			if err != nil {
				return err
			}
		}

		if chartJSON {
			if len(charts) == 1 {
				return printJSON(charts[0])
			}
			return printJSON(charts)
		}

		for i, c := range charts {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(color.New(color.Bold).Sprint(c.SeriesLabel))
			for _, line := range renderBars(c) {
				fmt.Println(line)
			}
		}
		return nil
	},
}

// renderBars scales each value between the series minimum and maximum.
func renderBars(c *analytics.Chart) []string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range c.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	lines := make([]string, len(c.Labels))
	for i, label := range c.Labels {
		n := barWidth
		if hi > lo {
			n = 1 + int(math.Round(float64(barWidth-1)*(c.Values[i]-lo)/(hi-lo)))
		}
		lines[i] = fmt.Sprintf("  %s %s %g", padRight(label, 12), strings.Repeat("█", n), c.Values[i])
	}
	return lines
}

func init() {
	chartCmd.Flags().StringVarP(&chartMetric, "metric", "m", "", "restrict to one metric")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "output chart-ready JSON")
	rootCmd.AddCommand(chartCmd)
}
