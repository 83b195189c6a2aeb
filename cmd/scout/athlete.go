// ABOUTME: CLI commands for athlete and coach profiles.
// ABOUTME: Register, edit, list and show; edit only touches flags that were passed.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
	"github.com/spf13/cobra"
)

var (
	registerRole     string
	registerSport    string
	registerDistrict string
	registerAge      int
	registerTeam     string
	registerEmail    string

	editName     string
	editSport    string
	editDistrict string
	editAge      int
	editTeam     string
	editEmail    string

	athleteListRole string
)

var athleteCmd = &cobra.Command{
	Use:     "athlete",
	Aliases: []string{"a"},
	Short:   "Manage athlete and coach profiles",
	Long: `Manage athlete and coach profiles.

Athletes carry a sport, district and age and can have performance records.
Coaches carry a team and district and are never returned by discovery.

EXAMPLES:

  scout athlete register "Ann Lee" --sport Cricket --district Kandy --age 17
  scout athlete register "Sam Perera" --role coach --team "Kandy CC" --district Kandy
  scout athlete edit ann --district Colombo --age 18
  scout athlete list
  scout athlete show ab12cd34`,
}

var athleteRegisterCmd = &cobra.Command{
	Use:     "register <name>",
	Aliases: []string{"add"},
	Short:   "Register an athlete or coach",
	Long: `Register a new profile.

Athletes need --sport, --district and --age. Coaches need --team and --district.
The sport list is shown by 'scout metrics'; other sports are accepted as free text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := strings.ToLower(strings.TrimSpace(registerRole))
		if !models.IsValidRole(role) {
			return fmt.Errorf("unknown role: %s (want athlete or coach)", registerRole)
		}

		var p *models.AthleteProfile
		if models.Role(role) == models.RoleCoach {
			p = models.NewCoach(args[0], registerTeam, registerDistrict)
		} else {
			if !cmd.Flags().Changed("age") {
				return fmt.Errorf("athletes need --age")
			}
			p = models.NewAthlete(args[0], registerSport, registerDistrict, registerAge)
		}
		p.WithEmail(registerEmail)

		if err := svc.RegisterProfile(p); err != nil {
			return fmt.Errorf("failed to register %s: %w", role, err)
		}

		color.Green("✓ Registered %s %s", p.Role, p.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(p.ID.String()[:8]), describeProfile(p))
		if p.IsAthlete() && !models.IsKnownSport(p.Sport) {
			color.Yellow("  note: %q is not in the sport list", p.Sport)
		}
		return nil
	},
}

var athleteEditCmd = &cobra.Command{
	Use:     "edit <id|name>",
	Aliases: []string{"update"},
	Short:   "Change fields of a profile",
	Long: `Change fields of an existing profile. Only the flags you pass are applied.

--sport and --age apply to athletes, --team to coaches. Pass --email "" to
remove the contact email.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}

		var u service.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			u.Name = &editName
		}
		if flags.Changed("sport") {
			u.Sport = &editSport
		}
		if flags.Changed("district") {
			u.District = &editDistrict
		}
		if flags.Changed("age") {
			u.Age = &editAge
		}
		if flags.Changed("team") {
			u.Team = &editTeam
		}
		if flags.Changed("email") {
			u.Email = &editEmail
		}
		if u.IsEmpty() {
			return fmt.Errorf("nothing to change: pass at least one of --name --sport --district --age --team --email")
		}

		updated, err := svc.UpdateProfile(p.ID.String(), u)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", p.Name, err)
		}

		color.Green("✓ Updated %s %s", updated.Role, updated.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(updated.ID.String()[:8]), describeProfile(updated))
		return nil
	},
}

var athleteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := repo.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		faint := color.New(color.Faint)
		shown := 0
		for _, p := range profiles {
			if athleteListRole != "" && string(p.Role) != athleteListRole {
				continue
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(p.ID.String()[:8]),
				padRight(truncate(p.Name, 24), 24),
				describeProfile(p))
			shown++
		}

		if shown == 0 {
			fmt.Println("No profiles found.")
		}
		return nil
	},
}

var athleteShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a profile with its record count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveAthlete(args[0])
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(p.Name), faint.Sprint(p.ID.String()))
		fmt.Printf("  Role:       %s\n", p.Role)
		if p.IsAthlete() {
			fmt.Printf("  Sport:      %s\n", p.Sport)
			if p.Age != nil {
				fmt.Printf("  Age:        %d\n", *p.Age)
			}
		} else {
			fmt.Printf("  Team:       %s\n", p.Team)
		}
		fmt.Printf("  District:   %s\n", p.District)
		if p.Email != "" {
			fmt.Printf("  Email:      %s\n", p.Email)
		}
		fmt.Printf("  Registered: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))

		if !p.IsAthlete() {
			return nil
		}

		h, err := svc.Records(p.ID.String(), "", 0)
		if err != nil {
			return err
		}
		fmt.Printf("  Records:    %d\n", len(h.Records))
		for _, k := range keysOf(h.Records) {
			fmt.Printf("    %s\n", faint.Sprint(k.String()))
		}
		return nil
	},
}

func describeProfile(p *models.AthleteProfile) string {
	if p.IsAthlete() {
		age := "?"
		if p.Age != nil {
			age = fmt.Sprint(*p.Age)
		}
		return fmt.Sprintf("%s, %s, age %s", p.Sport, p.District, age)
	}
	return fmt.Sprintf("coach, %s, %s", p.Team, p.District)
}

// keysOf returns the distinct metric keys of a series in first-seen order.
func keysOf(series []*models.PerformanceRecord) []models.MetricKey {
	seen := make(map[models.MetricKey]bool)
	var keys []models.MetricKey
	for _, r := range series {
		if k := r.Key(); !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func init() {
	athleteRegisterCmd.Flags().StringVar(&registerRole, "role", string(models.RoleAthlete), "athlete or coach")
	athleteRegisterCmd.Flags().StringVar(&registerSport, "sport", "", "sport (athletes)")
	athleteRegisterCmd.Flags().StringVar(&registerDistrict, "district", "", "home district")
	athleteRegisterCmd.Flags().IntVar(&registerAge, "age", 0, "age in years (athletes)")
	athleteRegisterCmd.Flags().StringVar(&registerTeam, "team", "", "team or affiliation (coaches)")
	athleteRegisterCmd.Flags().StringVar(&registerEmail, "email", "", "contact email")

	athleteEditCmd.Flags().StringVar(&editName, "name", "", "new full name")
	athleteEditCmd.Flags().StringVar(&editSport, "sport", "", "new sport (athletes)")
	athleteEditCmd.Flags().StringVar(&editDistrict, "district", "", "new home district")
	athleteEditCmd.Flags().IntVar(&editAge, "age", 0, "new age in years (athletes)")
	athleteEditCmd.Flags().StringVar(&editTeam, "team", "", "new team or affiliation (coaches)")
	athleteEditCmd.Flags().StringVar(&editEmail, "email", "", "new contact email, empty to remove")

	athleteListCmd.Flags().StringVar(&athleteListRole, "role", "", "only show athlete or coach profiles")

	athleteCmd.AddCommand(athleteRegisterCmd)
	athleteCmd.AddCommand(athleteEditCmd)
	athleteCmd.AddCommand(athleteListCmd)
	athleteCmd.AddCommand(athleteShowCmd)
	rootCmd.AddCommand(athleteCmd)
}
