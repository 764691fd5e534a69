package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/cache"
	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/logbook"
)

// cacheAgeString renders an entry age the way the fallback warning quotes
// it: whole hours once the entry is an hour old, whole minutes before.
func cacheAgeString(age time.Duration) string {
	if hours := int(age.Hours()); hours > 0 {
		return fmt.Sprintf("%d hour(s) old", hours)
	}
	return fmt.Sprintf("%d minute(s) old", int(age.Minutes()))
}

var hookFallbackCmd = &cobra.Command{
	Use:          "fallback",
	Short:        "Serve stale cached data when the live API failed (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("fallback_checked", func(in *hook.Input) (*hook.Output, error) {
		if !in.Tool.IsNSIPTool() {
			return hook.NewOutput().Skip("fallback_checked", "Not an NSIP tool"), nil
		}

		out := hook.NewOutput().Set("fallback_checked", true)
		failed, _ := hook.FailureReason(in.Result)
		if !failed {
			return out.Set("fallback_used", false).Set("reason", "No failure detected"), nil
		}

		cfg := mustConfig()
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		book := logbook.New(cfg.LogsDir())

		entry, err := store.GetStale(in.Tool.Name, in.Tool.Parameters)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			_, _ = book.AppendFallback(logbook.FallbackEntry{Tool: in.Tool.Name})
			return out.Set("fallback_used", false).Set("reason", "No cached data available"), nil
		}

		age := entry.Age(time.Now().UTC())
		cachedAt := entry.CachedAt.UTC().Format(time.RFC3339)
		ageStr := cacheAgeString(age)
		_, _ = book.AppendFallback(logbook.FallbackEntry{
			Tool:     in.Tool.Name,
			AgeHours: age.Hours(),
		})

		out.Context = fmt.Sprintf(
			"Warning: API call failed. Using cached data from %s (%s). Data may be outdated.",
			cachedAt, ageStr)
		return out.
			Set("fallback_used", true).
			Set("cached_at", cachedAt).
			Set("cache_age", ageStr).
			Set("cached_result", entry.Result), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookFallbackCmd)
}
