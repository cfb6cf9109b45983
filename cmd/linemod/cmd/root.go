package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"linemod/internal/config"
	"linemod/internal/logging"
)

var (
	configPath string
	colorMode  string
	logFile    string
	verbose    bool

	logCloser io.Closer
	// setupLogging installs the process logger; replaced in tests.
	setupLogging = logging.Setup
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linemod",
	Short: "Line-oriented codemods driven by regular expressions",
	Long: `linemod scans source files line by line for rule patterns, builds patches
from each match, and applies them. Fenced code blocks inside markdown files
are rewritten the same way.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := colorEnabled(colorMode, os.Stdout)
		if err != nil {
			return err
		}
		color.NoColor = !enabled

		lc := logging.DefaultConfig()
		lc.File = logFile
		lc.Verbose = verbose
		logCloser, err = setupLogging(lc, cmd.ErrOrStderr())
		return err
	},
}

// colorEnabled resolves the --color flag. auto colors only terminals and
// honors NO_COLOR.
func colorEnabled(mode string, out *os.File) (bool, error) {
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" || out == nil {
			return false, nil
		}
		return term.IsTerminal(int(out.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color %q: want auto, on, or off", mode)
}

// loadConfig reads --config, or the nearest config file above the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.Discover(".")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := executeContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// executeContext runs the root command and closes the log file whether or not
// the command failed. Cobra skips post-run hooks after a RunE error.
func executeContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeLog(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close log: %w", cerr)
	}
	return err
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: nearest linemod.toml or linemod.yaml)")
	pf.StringVar(&colorMode, "color", "auto", "colorize output: auto, on, or off")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
