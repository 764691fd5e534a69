package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/export"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookReportCmd = &cobra.Command{
	Use:          "report",
	Short:        "Generate a breeding report for animal queries (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("report_generated", func(in *hook.Input) (*hook.Output, error) {
		name := strings.ToLower(in.Tool.Name)
		if !strings.Contains(name, "get_animal") && !strings.Contains(name, "search_by_lpn") {
			return hook.NewOutput().Skip("report_generated", "Not an animal query"), nil
		}
		if hook.IsErrorResult(in.Result) {
			return hook.NewOutput().Skip("report_generated", "Tool returned error"), nil
		}

		animal := export.ExtractAnimal(in.Result)
		if animal == nil {
			return hook.NewOutput().Skip("report_generated", "Failed to generate report"), nil
		}

		now := time.Now().UTC()
		content, err := export.BreedingReport(animal, now)
		if err != nil {
			return hook.NewOutput().Skip("report_generated", "Failed to generate report"), nil
		}

		cfg := mustConfig()
		path, err := export.SaveReport(cfg.ExportsDir(), content, now)
		if err != nil {
			return hook.NewOutput().Skip("report_generated", "Failed to save report"), nil
		}
		return hook.NewOutput().
			Set("report_generated", true).
			Set("export_path", path), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookReportCmd)
}
