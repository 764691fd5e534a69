package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/alert"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookNotifyCmd = &cobra.Command{
	Use:          "notify",
	Short:        "Track failure bursts and write alert files (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("error_tracked", func(in *hook.Input) (*hook.Output, error) {
		if !in.Tool.IsNSIPTool() {
			return hook.NewOutput().Skip("error_tracked", "Not an NSIP tool"), nil
		}

		failed, reason := hook.FailureReason(in.Result)
		if !failed {
			return hook.NewOutput().Skip("error_tracked", "No failure detected"), nil
		}

		cfg := mustConfig()
		tracker := alert.NewTracker(
			cfg.LogsDir(),
			cfg.Alerts.FailureThreshold,
			cfg.AlertWindow(),
			cfg.AlertCooldown(),
		)
		outcome, err := tracker.Record(alert.Failure{Tool: in.Tool.Name, Error: reason})
		if err != nil {
			return nil, err
		}

		out := hook.NewOutput().
			Set("error_tracked", true).
			Set("recent_failure_count", outcome.Failures).
			Set("alert_created", outcome.Alerted).
			Set("threshold", cfg.Alerts.FailureThreshold)
		if outcome.Alerted {
			out.Set("alert_path", outcome.AlertPath)
			out.Context = fmt.Sprintf(
				"ALERT: %d API failures detected. Alert file created at: %s",
				outcome.Failures, outcome.AlertPath)
		}
		return out, nil
	}),
}

func init() {
	hookCmd.AddCommand(hookNotifyCmd)
}
