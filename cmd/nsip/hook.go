package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/logging"
)

// hookCmd groups the stdin/stdout JSON filters that Claude Code invokes
// around NSIP tool calls. These are not meant to be run by hand; `nsip
// hooks install` wires them into ~/.claude/settings.json.
var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Hook filters invoked by Claude Code (read stdin, write stdout)",
	Long: `Each hook subcommand is one filter in the fail-safe hook contract:
read a JSON envelope from stdin, perform a single concern, write a JSON
envelope to stdout, and exit 0 unconditionally. Internal failures are
reported inside the output envelope, never as a process failure.

PreToolUse filters:
  validate-lpn     Block malformed LPN IDs before they reach the API
  breed-context    Inject breed characteristics for search queries
  traits           Inject trait definitions and breeding terminology

PostToolUse filters:
  log-query        Append every NSIP call to the query log
  cache-result     Cache successful results of read-only queries
  fallback         Serve stale cached data when the API failed
  retry            Probe for API recovery on a fixed backoff schedule
  notify           Track failure bursts and drop alert files
  export-csv       Export result rows to a timestamped CSV
  report           Generate a markdown breeding report per animal
  pedigree         Render lineage results as a family tree

UserPromptSubmit filters:
  detect-search    Spot LPN IDs and query intent in prompts
  compare          Suggest comparative analysis for multi-animal prompts

SessionStart filters:
  health           Check NSIP API reachability at session start`,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// hookRunE wraps a filter in the fail-safe runner bound to the process
// stdin/stdout. The returned RunE never reports an error, so cobra never
// turns a hook problem into a non-zero exit. Diagnostics go to stderr and
// the log file; stdout carries only the envelope.
func hookRunE(errKey string, filter hook.Filter) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := hookLogger()
		defer func() { _ = logger.Sync() }()

		start := time.Now()
		err := hook.Run(os.Stdin, cmd.OutOrStdout(), errKey, filter)
		logger.Debug("hook filter finished",
			zap.String("filter", cmd.Name()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}

// hookLogger builds the diagnostic logger for a hook invocation. Config
// problems yield a no-op logger rather than noise on stderr.
func hookLogger() *zap.Logger {
	cfg, err := loadConfig()
	if err != nil {
		return logging.Nop()
	}
	return logging.New(cfg.Verbose, cfg.LogsDir())
}
