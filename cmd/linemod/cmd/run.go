package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linemod/internal/config"
	"linemod/internal/core"
	"linemod/internal/tui"
)

var runFlags struct {
	rules         []string
	dryRun        bool
	interactive   bool
	jobs          int
	extensions    []string
	exclude       []string
	markdownLangs []string
	incremental   bool
	stateFile     string
	git           bool
}

// runCmd applies the selected rules to the given paths.
var runCmd = &cobra.Command{
	Use:   "run [path...]",
	Short: "Apply rules to files and directories",
	Long: `run applies the selected rules (all rules by default) to every matching file
under the given paths, or the current directory. Directories inside a git work
tree are listed through git so ignored files are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}

		rc := mergeRunConfig(cmd, cfg.Run)
		opts := core.Options{
			Paths:         args,
			Rules:         rc.Rules,
			Extensions:    rc.Extensions,
			Exclude:       rc.Exclude,
			MarkdownLangs: rc.MarkdownLangs,
			UseGit:        runFlags.git,
			Jobs:          rc.Jobs,
			DryRun:        runFlags.dryRun,
			Color:         !color.NoColor,
			Incremental:   rc.Incremental,
			Logger:        slog.Default(),
		}
		if opts.Incremental {
			opts.Store = core.NewFileStateStore(statePath(cfg, rc.StateFile))
		}
		if runFlags.interactive {
			opts.Reviewer = tui.Reviewer{}
		}

		report, err := core.Run(cmd.Context(), opts, catalog)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, opts.DryRun)
		if failed := report.Summary().Failed; failed > 0 {
			return fmt.Errorf("%d file(s) failed", failed)
		}
		return nil
	},
}

// mergeRunConfig overlays the flags the user set explicitly on the config file.
func mergeRunConfig(cmd *cobra.Command, rc config.RunConfig) config.RunConfig {
	flags := cmd.Flags()
	if flags.Changed("rule") {
		rc.Rules = runFlags.rules
	}
	if flags.Changed("ext") {
		rc.Extensions = runFlags.extensions
	}
	if flags.Changed("exclude") {
		rc.Exclude = append(rc.Exclude, runFlags.exclude...)
	}
	if flags.Changed("markdown-lang") {
		rc.MarkdownLangs = runFlags.markdownLangs
	}
	if flags.Changed("jobs") {
		rc.Jobs = runFlags.jobs
	}
	if flags.Changed("incremental") {
		rc.Incremental = runFlags.incremental
	}
	if flags.Changed("state-file") {
		rc.StateFile = runFlags.stateFile
	}
	return rc
}

// statePath resolves a relative state file against the config file's directory.
func statePath(cfg *config.Config, file string) string {
	if filepath.IsAbs(file) || cfg.Path == "" {
		return file
	}
	return filepath.Join(filepath.Dir(cfg.Path), file)
}

var (
	failStyle    = color.New(color.FgRed, color.Bold)
	summaryStyle = color.New(color.Bold)
)

func printReport(out, errOut io.Writer, report *core.Report, dryRun bool) {
	for _, f := range report.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(errOut, "%s %s: %v\n", failStyle.Sprint("error"), f.Path, f.Err)
		case dryRun && f.Diff != "":
			fmt.Fprint(out, f.Diff)
		case f.Changed():
			fmt.Fprintf(out, "%s: applied %d patch(es)\n", f.Path, len(f.Applied))
		}
	}

	s := report.Summary()
	verb := "changed"
	if dryRun {
		verb = "would change"
	}
	fmt.Fprintln(out, summaryStyle.Sprintf("%d of %d file(s) %s, %d patch(es) applied, %d skipped, %d rejected, %d cached, %d failed",
		s.Changed, s.Files, verb, s.Applied, s.Skipped, s.Rejected, s.Cached, s.Failed))
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVarP(&runFlags.rules, "rule", "r", nil, "rule to run (repeatable; default all)")
	f.BoolVarP(&runFlags.dryRun, "dry-run", "n", false, "print a diff instead of writing files")
	f.BoolVarP(&runFlags.interactive, "interactive", "i", false, "review each patch before it is applied")
	f.IntVarP(&runFlags.jobs, "jobs", "j", 0, "files processed in parallel (default GOMAXPROCS)")
	f.StringSliceVar(&runFlags.extensions, "ext", nil, "file extensions to scan, e.g. .dart,.md")
	f.StringArrayVar(&runFlags.exclude, "exclude", nil, "glob of paths to skip (repeatable)")
	f.StringSliceVar(&runFlags.markdownLangs, "markdown-lang", nil, "fenced code block languages to rewrite in markdown")
	f.BoolVar(&runFlags.incremental, "incremental", false, "skip files unchanged since the last run")
	f.StringVar(&runFlags.stateFile, "state-file", "", "state file for incremental runs")
	f.BoolVar(&runFlags.git, "git", true, "list directories through git when inside a work tree")
	rootCmd.AddCommand(runCmd)
}
