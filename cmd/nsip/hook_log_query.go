package main

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/logbook"
)

var hookLogQueryCmd = &cobra.Command{
	Use:          "log-query",
	Short:        "Record every NSIP query in the JSONL log (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("logged", func(in *hook.Input) (*hook.Output, error) {
		cfg := mustConfig()
		book := logbook.New(cfg.LogsDir())

		entry := logbook.QueryEntry{
			Tool:      in.Tool.Name,
			Params:    in.Tool.Parameters,
			Succeeded: !hook.IsErrorResult(in.Result),
		}
		if entry.Tool == "" {
			entry.Tool = "unknown"
		}
		if msg, ok := in.Result["error"].(string); ok {
			entry.Error = msg
		}
		if in.Result != nil {
			if raw, err := json.Marshal(in.Result); err == nil {
				entry.ResultSize = len(raw)
			}
		}
		if ms, ok := in.Metadata["duration_ms"].(float64); ok {
			entry.DurationMs = ms
		}

		if _, err := book.AppendQuery(entry); err != nil {
			return nil, err
		}
		return hook.NewOutput().
			Set("logged", true).
			Set("log_file", filepath.Join(cfg.LogsDir(), logbook.QueriesFile)).
			Set("timestamp", time.Now().UTC().Format(time.RFC3339)), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookLogQueryCmd)
}
