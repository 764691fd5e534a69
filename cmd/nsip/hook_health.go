package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/nsip"
)

var hookHealthCmd = &cobra.Command{
	Use:          "health",
	Short:        "Check NSIP API reachability at session start (SessionStart)",
	SilenceUsage: true,
	RunE: hookRunE("health_check", func(in *hook.Input) (*hook.Output, error) {
		cfg := mustConfig()
		client := nsip.New(cfg.API.BaseURL, cfg.APITimeout())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout())
		defer cancel()
		report := client.CheckHealth(ctx)

		out := hook.NewOutput().
			Set("timestamp", report.CheckedAt.UTC().Format(time.RFC3339)).
			Set("api_healthy", report.Healthy).
			Set("api_endpoint", report.Endpoint)
		if report.Healthy {
			lastUpdate := report.DataUpdatedAt
			if lastUpdate == "" {
				lastUpdate = "Unknown"
			}
			return out.
				Set("health_check", "passed").
				Set("last_update", lastUpdate).
				Set("status", "API is operational"), nil
		}

		out.Warning = fmt.Sprintf("NSIP API health check failed: %s", report.Error)
		return out.
			Set("health_check", "failed").
			Set("status", "API is not accessible").
			Set("error", report.Error), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookHealthCmd)
}
