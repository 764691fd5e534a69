package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/logbook"
	"github.com/boshu2/nsipops/cli/internal/nsip"
	"github.com/boshu2/nsipops/cli/internal/retry"
)

// The retry filter runs after the tool call, so it cannot re-invoke the
// tool itself. It probes the API health endpoint on the backoff schedule
// instead: a probe that comes back clean tells the host the failure was
// transient and the query is worth reissuing.
var hookRetryCmd = &cobra.Command{
	Use:          "retry",
	Short:        "Probe for API recovery after a failed call (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("retry_handled", func(in *hook.Input) (*hook.Output, error) {
		if !in.Tool.IsNSIPTool() {
			return hook.NewOutput().Skip("retry_handled", "Not an NSIP tool"), nil
		}

		out := hook.NewOutput().Set("retry_handled", true)
		failed, reason := hook.FailureReason(in.Result)
		if !failed {
			return out.Set("retry_needed", false).Set("reason", "No failure detected"), nil
		}

		cfg := mustConfig()
		client := nsip.New(cfg.API.BaseURL, cfg.APITimeout())
		book := logbook.New(cfg.LogsDir())
		policy := retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delays: cfg.RetryDelays()}
		if policy.Validate() != nil {
			policy = retry.Default()
		}

		attempts := 0
		err := policy.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			_, probeErr := client.GetLastUpdate(ctx)
			return probeErr
		}, nil)

		recovered := err == nil
		lastErr := reason
		if err != nil {
			lastErr = err.Error()
		}
		_, _ = book.AppendRetry(logbook.RetryEntry{
			Tool:      in.Tool.Name,
			Attempts:  attempts,
			Recovered: recovered,
			LastError: lastErr,
		})

		out.Set("retry_needed", true).Set("retry_count", attempts)
		if recovered {
			out.Context = fmt.Sprintf(
				"Note: API recovered after %d retry attempt(s). The failed query is worth reissuing.",
				attempts)
			return out.Set("status", "succeeded"), nil
		}
		out.Context = fmt.Sprintf(
			"Warning: API call failed after %d retry attempt(s). Using original result.",
			attempts)
		return out.Set("status", "exhausted"), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookRetryCmd)
}
