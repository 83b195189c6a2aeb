// ABOUTME: Charm Cloud sync commands for the charm storage backend.
// ABOUTME: Wraps the charm CLI for linking and the kv package for repair, reset and wipe.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/scout/internal/charm"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Share scout data between machines through Charm Cloud",
	Long: `Keep profiles and performance records in step across machines.

Only the charm backend syncs. Select it with "backend: charm" in the config
file or with --backend charm. Values are encrypted with your SSH key before
they leave the machine, and every write is pushed as it happens.

Typical setup:

  scout --backend charm sync link     # on each machine, same Charm account
  scout --backend charm sync status   # confirm the counts match

Recovery:

  repair   fix a damaged local database
  reset    drop local data and pull everything from the cloud
  wipe     remove cloud backups and local data for good`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Attach this machine to a Charm account",
	Long: `Attach this machine to a Charm account, creating one from your SSH key
when none exists yet. Requires the charm binary on PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("charm link: %w (install with: go install github.com/charmbracelet/charm@latest)", err)
		}
		color.Green("\n✓ Linked to Charm")

		c, ok := repo.(*charm.Client)
		if !ok {
			fmt.Printf("The %s backend does not sync; rerun with --backend charm.\n", cfg.GetBackend())
			return nil
		}
		if err := c.Sync(); err != nil {
			color.Yellow("⚠ First sync did not finish: %v", err)
			return nil
		}
		color.Green("✓ Pulled latest scout data")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Detach this machine from Charm",
	Long:  `Detach this machine from Charm. Local scout data stays where it is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("charm unlink: %w", err)
		}
		color.Green("✓ Unlinked; local data kept")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Charm account and synced counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := repo.(*charm.Client)
		if !ok {
			color.Yellow("Backend %s does not sync", cfg.GetBackend())
			fmt.Println("Use --backend charm to store data in Charm KV.")
			return nil
		}

		id, err := c.ID()
		if err != nil {
			color.Yellow("This machine is not linked")
			fmt.Println("Run 'scout --backend charm sync link' first.")
			return nil
		}

		host := os.Getenv("CHARM_HOST")
		if host == "" {
			host = charm.DefaultHost
		}

		profiles, athletes, records, err := syncedCounts(c)
		if err != nil {
			return err
		}

		color.Green("✓ Linked as %s", id)
		fmt.Printf("  %-10s %s\n", "host", host)
		fmt.Printf("  %-10s %d\n", "profiles", profiles)
		fmt.Printf("  %-10s %d\n", "athletes", athletes)
		fmt.Printf("  %-10s %d\n", "records", records)
		if c.IsReadOnly() {
			color.Yellow("  read-only while another scout process holds the lock")
		}
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix a damaged local Charm database",
	Long: `Checkpoint the write-ahead log, drop a stale shared-memory file, run an
integrity check and vacuum the local scout database.

Pass --force to keep going when the integrity check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing local scout database")
		result, err := kv.Repair(charm.DBName, force)
		steps := []struct {
			done  bool
			label string
		}{
			{result.WalCheckpointed, "write-ahead log checkpointed"},
			{result.ShmRemoved, "shared-memory file removed"},
			{result.IntegrityOK, "integrity check"},
			{result.Vacuumed, "vacuumed"},
		}
		for _, s := range steps {
			switch {
			case s.done:
				color.Green("  ✓ %s", s.label)
			case s.label == "integrity check":
				color.Red("  ✗ %s", s.label)
			}
		}

		if err != nil {
			if !force {
				color.Yellow("Retry with --force to recover what is readable.")
			}
			return fmt.Errorf("repair: %w", err)
		}
		color.Green("✓ Database repaired")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace local data with the cloud copy",
	Long: `Delete the local Charm database and rebuild it from Charm Cloud.
Writes that never reached the cloud are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd.InOrStdin(), "Drop local scout data and restore from the cloud? [y/N]: ", "y", "yes") {
			fmt.Println("Nothing changed.")
			return nil
		}
		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		color.Green("✓ Restored from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete cloud backups and local data",
	Long: `Delete every cloud backup and the local Charm database for scout.
There is no undo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd.InOrStdin(), "Type 'wipe' to delete all scout data in Charm: ", "wipe") {
			fmt.Println("Nothing changed.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe: %w", err)
		}
		color.Green("✓ Wiped %d cloud backups and %d local files",
			result.CloudBackupsDeleted, result.LocalFilesDeleted)
		return nil
	},
}

// runCharmCLI hands the terminal to the charm binary.
func runCharmCLI(verb string) error {
	c := exec.Command("charm", verb)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	return c.Run()
}

// confirm prints prompt and reports whether the answer is one of accept,
// compared case-insensitively.
func confirm(in io.Reader, prompt string, accept ...string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	for _, a := range accept {
		if strings.EqualFold(answer, a) {
			return true
		}
	}
	return false
}

func syncedCounts(c *charm.Client) (profiles, athletes, records int, err error) {
	all, err := c.ListProfiles()
	if err != nil {
		return 0, 0, 0, err
	}
	for _, p := range all {
		if !p.IsAthlete() {
			continue
		}
		athletes++
		rs, err := c.ListRecords(p.ID, nil, 0)
		if err != nil {
			return 0, 0, 0, err
		}
		records += len(rs)
	}
	return len(all), athletes, records, nil
}

func init() {
	syncRepairCmd.Flags().Bool("force", false, "Continue when the integrity check fails")

	syncCmd.AddCommand(syncLinkCmd, syncUnlinkCmd, syncStatusCmd, syncRepairCmd, syncResetCmd, syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
