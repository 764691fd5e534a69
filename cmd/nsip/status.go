package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/alert"
	"github.com/boshu2/nsipops/cli/internal/cache"
	"github.com/boshu2/nsipops/cli/internal/logbook"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show NSIP integration status",
	Long: `Display the current state of the NSIP integration.

Shows:
  - Query, retry, fallback, and detection log counts
  - Recent queries
  - Result cache statistics
  - Failures inside the current alert window

Examples:
  nsip status
  nsip status -o json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	BaseDir         string       `json:"base_dir"`
	Queries         int          `json:"queries"`
	Retries         int          `json:"retries"`
	Fallbacks       int          `json:"fallbacks"`
	Detections      int          `json:"detections"`
	RecentQueries   []queryBrief `json:"recent_queries,omitempty"`
	Cache           *cache.Stats `json:"cache,omitempty"`
	PendingFailures int          `json:"pending_failures"`
}

type queryBrief struct {
	Timestamp string `json:"timestamp"`
	Tool      string `json:"tool"`
	Succeeded bool   `json:"succeeded"`
}

// loadRecentQueries populates status with the last few logged queries.
func loadRecentQueries(book *logbook.Book, status *statusOutput) {
	raw, err := book.Tail(logbook.QueriesFile, 5)
	if err != nil {
		return
	}
	for _, line := range raw {
		var e logbook.QueryEntry
		if json.Unmarshal(line, &e) != nil {
			continue
		}
		status.RecentQueries = append(status.RecentQueries, queryBrief{
			Timestamp: e.Timestamp.Format("2006-01-02 15:04"),
			Tool:      e.Tool,
			Succeeded: e.Succeeded,
		})
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	book := logbook.New(cfg.LogsDir())
	status := &statusOutput{BaseDir: cfg.BaseDir}
	status.Queries, _ = book.Count(logbook.QueriesFile)
	status.Retries, _ = book.Count(logbook.RetriesFile)
	status.Fallbacks, _ = book.Count(logbook.FallbacksFile)
	status.Detections, _ = book.Count(logbook.DetectionsFile)
	loadRecentQueries(book, status)

	store := cache.NewStore(cfg.CacheDir(), cfg.CacheTTL())
	if stats, err := store.Stats(); err == nil {
		status.Cache = &stats
	}

	tracker := alert.NewTracker(cfg.LogsDir(), cfg.Alerts.FailureThreshold,
		cfg.AlertWindow(), cfg.AlertCooldown())
	if pending, err := tracker.Pending(); err == nil {
		status.PendingFailures = len(pending)
	}

	return outputStatus(cfg.Output, status)
}

func outputStatus(format string, status *statusOutput) error {
	if format == "json" {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("NSIP Integration Status")
	fmt.Println("=======================")
	fmt.Println()
	fmt.Printf("Base Directory: %s\n", status.BaseDir)
	fmt.Println()

	fmt.Println("Activity:")
	fmt.Printf("  Queries:    %d\n", status.Queries)
	fmt.Printf("  Retries:    %d\n", status.Retries)
	fmt.Printf("  Fallbacks:  %d\n", status.Fallbacks)
	fmt.Printf("  Detections: %d\n", status.Detections)

	if len(status.RecentQueries) > 0 {
		fmt.Println("\nRecent Queries:")
		for _, q := range status.RecentQueries {
			mark := "✓"
			if !q.Succeeded {
				mark = "✗"
			}
			fmt.Printf("  %s %s  %s\n", mark, q.Timestamp, q.Tool)
		}
	}

	if status.Cache != nil {
		fmt.Println("\nResult Cache:")
		fmt.Printf("  Entries: %d (%d fresh, %d stale)\n",
			status.Cache.Entries, status.Cache.Fresh, status.Cache.Stale)
		fmt.Printf("  Size:    %d bytes\n", status.Cache.SizeBytes)
	}

	fmt.Printf("\nFailures in alert window: %d\n", status.PendingFailures)

	fmt.Println("\nCommands:")
	fmt.Println("  nsip cache stats    - Detailed cache statistics")
	fmt.Println("  nsip export queries - Batch-export logged queries to CSV")
	fmt.Println("  nsip doctor         - Check installation and API health")

	return nil
}

// formatAge renders a duration as a short age string for table output.
func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
