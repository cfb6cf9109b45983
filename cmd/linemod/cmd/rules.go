package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// rulesCmd lists the built-in and configured rules.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("RULE", "PATTERNS", "WHEN", "DESCRIPTION")
		for _, r := range catalog.Rules() {
			patterns := make([]string, len(r.Patterns))
			for i, p := range r.Patterns {
				patterns[i] = p.String()
			}
			t.Row(r.Name, strings.Join(patterns, "\n"), r.When(), r.Description)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
