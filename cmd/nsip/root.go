package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/config"
)

var (
	// Global flags
	verbose bool
	output  string
	baseDir string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nsip",
	Short: "NSIP sheep-breeding integration for Claude Code",
	Long: `nsip is the integration layer between Claude Code and the NSIP
(National Sheep Improvement Program) search API.

Hook Filters (wired into Claude Code, not run by hand):
  hook         Stdin/stdout JSON filters for tool calls and prompts

Operator Commands:
  hooks        Install the filters into ~/.claude/settings.json
  plugin       Register the data server and slash commands
  status       Show query, cache, and alert activity
  cache        Inspect or clear the TTL result cache
  export       Batch-export logged queries to CSV
  doctor       Check installation and API health
  config       Show resolved configuration
  version      Show version information

Every hook filter reads one JSON envelope from stdin, does one job, and
writes one JSON envelope to stdout. Hooks always exit 0: a broken hook
must never break a breeding-data session.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Data directory (default: ~/.nsipops)")
}

// loadConfig resolves configuration with the global flags folded in.
func loadConfig() (*config.Config, error) {
	overrides := &config.Config{
		Output:  output,
		BaseDir: baseDir,
		Verbose: verbose,
	}
	return config.Load(overrides)
}

// mustConfig loads configuration, falling back to defaults when loading
// fails. Hook filters use this: a bad config file must never block a
// tool call, the defaults are always safe.
func mustConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.Default()
	}
	_ = cfg.EnsureDirs()
	return cfg
}
