package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linemod/internal/mdblocks"
)

var blockLangs []string

// blocksCmd shows which fenced code blocks run would rewrite.
var blocksCmd = &cobra.Command{
	Use:   "blocks file.md...",
	Short: "List fenced code blocks in markdown files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		langs := blockLangs
		if !cmd.Flags().Changed("markdown-lang") {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			langs = cfg.Run.MarkdownLangs
		}

		out := cmd.OutOrStdout()
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			for _, b := range mdblocks.CodeBlocks(content, langs...) {
				fmt.Fprintf(out, "%s:%d-%d\t%s\n", path, b.StartLine+1, b.EndLine, b.Lang)
			}
		}
		return nil
	},
}

func init() {
	blocksCmd.Flags().StringSliceVar(&blockLangs, "markdown-lang", nil, "languages to list (default from config)")
	rootCmd.AddCommand(blocksCmd)
}
