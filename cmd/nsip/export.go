package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/cache"
	"github.com/boshu2/nsipops/cli/internal/export"
	"github.com/boshu2/nsipops/cli/internal/logbook"
	"github.com/boshu2/nsipops/cli/internal/worker"
)

var exportConcurrency int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Batch-export stored data to CSV",
	Long: `Export stored NSIP data to CSV files in the exports directory.

Subcommands:
  cache     Export every cached query result, one CSV per entry
  queries   Export the query log as a single CSV`,
}

var exportCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Export cached query results to CSV",
	Long: `Render every cached query result as a CSV file under the exports
directory. Entries are processed concurrently; a bad entry is reported
and skipped without aborting the batch.`,
	RunE: runExportCache,
}

var exportQueriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Export the query log to CSV",
	RunE:  runExportQueries,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCacheCmd)
	exportCmd.AddCommand(exportQueriesCmd)

	exportCacheCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0,
		"Worker count for parallel export (default: number of CPUs)")
}

func runExportCache(cmd *cobra.Command, args []string) error {
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
		fmt.Println("Cache is empty, nothing to export.")
		return nil
	}

	pool := worker.NewPool[*cache.Entry, string](exportConcurrency)
	results := pool.Process(entries, func(e *cache.Entry) (string, error) {
		records := export.ExtractRecords(e.Result)
		if len(records) == 0 {
			return "", fmt.Errorf("%s: no exportable data", e.Tool)
		}
		filename := export.CSVFilename(e.Tool, e.CachedAt.UTC())
		return export.WriteCSV(cfg.ExportsDir(), filename, records)
	})

	exported := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("  skipped: %v\n", r.Err)
			continue
		}
		fmt.Printf("  wrote %s\n", r.Value)
		exported++
	}
	fmt.Printf("Exported %d of %d cached entr%s to %s\n",
		exported, len(entries), pluralY(len(entries)), cfg.ExportsDir())
	return nil
}

func runExportQueries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	book := logbook.New(cfg.LogsDir())
	total, err := book.Count(logbook.QueriesFile)
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("Query log is empty, nothing to export.")
		return nil
	}

	raw, err := book.Tail(logbook.QueriesFile, total)
	if err != nil {
		return err
	}

	records := make([]map[string]any, 0, len(raw))
	for _, line := range raw {
		var rec map[string]any
		if json.Unmarshal(line, &rec) != nil {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		fmt.Println("Query log is empty, nothing to export.")
		return nil
	}

	filename := export.CSVFilename("query_log", time.Now().UTC())
	path, err := export.WriteCSV(cfg.ExportsDir(), filename, records)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d queries to %s\n", len(records), path)
	return nil
}
