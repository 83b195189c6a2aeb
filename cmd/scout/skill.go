// ABOUTME: Install the scout skill for Claude Code.
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/scout.
package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the scout skill for Claude Code.

This copies the skill definition to ~/.claude/skills/scout/
so Claude Code knows when to reach for the scout MCP tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, cmd.InOrStdin(), skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// installSkill writes the embedded SKILL.md under home, asking on in unless skipConfirm.
func installSkill(home string, in io.Reader, skipConfirm bool) error {
	skillDir := filepath.Join(home, ".claude", "skills", "scout")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	fmt.Println("This will install the scout skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Register athletes and coaches")
	fmt.Println("  • Log and review performance measurements")
	fmt.Println("  • Discover athletes by sport, district, age and name")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", skillPath)
	fmt.Println()

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	if !skipConfirm {
		fmt.Print("Install the scout skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.Green("✓ Installed scout skill")
	return nil
}
