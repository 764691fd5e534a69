package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/export"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookPedigreeCmd = &cobra.Command{
	Use:          "pedigree",
	Short:        "Render lineage results as a family tree (PostToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("pedigree_generated", func(in *hook.Input) (*hook.Output, error) {
		if !strings.Contains(strings.ToLower(in.Tool.Name), "get_lineage") {
			return hook.NewOutput().Skip("pedigree_generated", "Not a lineage query"), nil
		}
		if hook.IsErrorResult(in.Result) {
			return hook.NewOutput().Skip("pedigree_generated", "Tool returned error"), nil
		}

		lineage := export.ExtractLineage(in.Result)
		if lineage == nil {
			return hook.NewOutput().Skip("pedigree_generated", "No lineage data found"), nil
		}

		cfg := mustConfig()
		path, err := export.SavePedigree(cfg.ExportsDir(), lineage, time.Now().UTC())
		if err != nil {
			return hook.NewOutput().Skip("pedigree_generated", "Failed to save pedigree"), nil
		}
		return hook.NewOutput().
			Set("pedigree_generated", true).
			Set("export_path", path), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookPedigreeCmd)
}
