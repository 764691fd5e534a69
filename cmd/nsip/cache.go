package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the TTL result cache",
	Long: `Manage the file-backed result cache used by the cache-result and
fallback hooks.

Subcommands:
  stats    Show entry counts and on-disk size
  list     List cached entries with their ages
  purge    Delete entries older than the TTL
  clear    Delete every entry`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		stats, err := store.Stats()
		if err != nil {
			return err
		}

		if cfg.Output == "json" {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal cache stats: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Cache directory: %s\n", cfg.CacheDir())
		fmt.Printf("TTL:             %s\n", cfg.CacheTTL())
		fmt.Printf("Entries:         %d (%d fresh, %d stale)\n", stats.Entries, stats.Fresh, stats.Stale)
		fmt.Printf("Size:            %d bytes\n", stats.SizeBytes)
		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached entries with their ages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}

		now := time.Now().UTC()
		for _, e := range entries {
			age := e.Age(now)
			state := "fresh"
			if age > cfg.CacheTTL() {
				state = "stale"
			}
			fmt.Printf("%-6s %-6s %s\n", formatAge(age), state, e.Tool)
		}
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete entries older than the TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		removed, err := store.Purge()
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d stale entr%s.\n", removed, pluralY(removed))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
		removed, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d entr%s.\n", removed, pluralY(removed))
		return nil
	},
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
