package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long: `Show the effective configuration and where each value came from.

Precedence (highest first):
  1. Command-line flags
  2. Environment variables (NSIPOPS_*)
  3. Project config (.nsipops/config.yaml)
  4. Home config (~/.nsipops/config.yaml)
  5. Defaults

Examples:
  nsip config
  nsip config -o json`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	rc := config.Resolve(output, baseDir, verbose)

	if output == "json" {
		data, err := json.MarshalIndent(rc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("Resolved configuration:")
	fmt.Println()
	rows := []struct {
		name   string
		value  any
		source config.Source
	}{
		{"output", rc.Output.Value, rc.Output.Source},
		{"base_dir", rc.BaseDir.Value, rc.BaseDir.Source},
		{"verbose", rc.Verbose.Value, rc.Verbose.Source},
		{"api_base_url", rc.APIBaseURL.Value, rc.APIBaseURL.Source},
		{"cache_ttl_minutes", rc.CacheTTL.Value, rc.CacheTTL.Source},
	}
	for _, r := range rows {
		fmt.Printf("  %-18s %-40v (%s)\n", r.name, r.value, r.source)
	}
	return nil
}
