package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/export"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookExportCSVCmd = &cobra.Command{
	Use:          "export-csv",
	Short:        "Export result rows to a timestamped CSV (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("exported", func(in *hook.Input) (*hook.Output, error) {
		if hook.IsErrorResult(in.Result) {
			return hook.NewOutput().Skip("exported", "Error result not exported"), nil
		}

		records := export.ExtractRecords(in.Result)
		if len(records) == 0 {
			return hook.NewOutput().Skip("exported", "No exportable data found"), nil
		}

		cfg := mustConfig()
		filename := export.CSVFilename(in.Tool.Name, time.Now().UTC())
		path, err := export.WriteCSV(cfg.ExportsDir(), filename, records)
		if err != nil {
			return nil, err
		}
		return hook.NewOutput().
			Set("exported", true).
			Set("filepath", path).
			Set("record_count", len(records)).
			Set("export_dir", cfg.ExportsDir()), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookExportCSVCmd)
}
