package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/cache"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

// cacheableTools are the read operations worth caching. Searches and
// mutations are excluded: their results shift with the query surface.
var cacheableTools = map[string]bool{
	"nsip_get_animal":    true,
	"nsip_search_by_lpn": true,
	"nsip_get_lineage":   true,
	"nsip_get_progeny":   true,
}

var hookCacheResultCmd = &cobra.Command{
	Use:          "cache-result",
	Short:        "Cache successful results of read-only NSIP queries (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("cached", func(in *hook.Input) (*hook.Output, error) {
		if !cacheableTools[in.Tool.BaseName()] || hook.IsErrorResult(in.Result) {
			return hook.NewOutput().Skip("cached", "Not cacheable or error result"), nil
		}

		cfg := mustConfig()
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		if err := store.Set(in.Tool.Name, in.Tool.Parameters, in.Result); err != nil {
			return nil, err
		}

		stats, err := store.Stats()
		if err != nil {
			return nil, err
		}
		return hook.NewOutput().
			Set("cached", true).
			Set("cache_stats", map[string]any{
				"entries":          stats.Entries,
				"total_size_bytes": stats.SizeBytes,
				"cache_dir":        cfg.CacheDir(),
			}), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookCacheResultCmd)
}
