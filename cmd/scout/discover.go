// ABOUTME: CLI command for discovering athletes.
// ABOUTME: Applies sport, district, maximum age and name filters with AND semantics.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/spf13/cobra"
)

var (
	discoverSport    string
	discoverDistrict string
	discoverAge      string
	discoverName     string
	discoverJSON     bool
)

var discoverCmd = &cobra.Command{
	Use:     "discover",
	Aliases: []string{"find"},
	Short:   "Find athletes matching filters",
	Long: `Find athletes matching every supplied filter.

FILTERS:

  --sport      exact sport
  --district   exact district
  --age        maximum age, inclusive
  --name       case-insensitive substring of the name

  Omitted filters match everything. Coaches are never returned.
  Results are in registration order.

EXAMPLES:

  scout discover                                  # Every athlete
  scout discover --sport Cricket --age 18
  scout discover --district Kandy --name lee --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := discovery.ParseFilter(discoverSport, discoverDistrict, discoverAge, discoverName)
		if err != nil {
			return err
		}

		roster, err := svc.Discover(f)
		if err != nil {
			return err
		}

		if discoverJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if roster == nil {
				return enc.Encode([]struct{}{})
			}
			return enc.Encode(roster)
		}

		if len(roster) == 0 {
			fmt.Println("No athletes found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range roster {
			fmt.Printf("%s %s %s\n",
				faint.Sprint(p.ID.String()[:8]),
				padRight(truncate(p.Name, 24), 24),
				describeProfile(p))
		}
		if !f.IsEmpty() {
			fmt.Println(faint.Sprintf("%d match %s", len(roster), f))
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverSport, "sport", "", "exact sport")
	discoverCmd.Flags().StringVar(&discoverDistrict, "district", "", "exact district")
	discoverCmd.Flags().StringVar(&discoverAge, "age", "", "maximum age, inclusive")
	discoverCmd.Flags().StringVar(&discoverName, "name", "", "case-insensitive name substring")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output JSON")
	rootCmd.AddCommand(discoverCmd)
}
