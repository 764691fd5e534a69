package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/detect"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookCompareCmd = &cobra.Command{
	Use:          "compare",
	Short:        "Suggest comparative analysis for multi-animal prompts (UserPromptSubmit)",
	SilenceUsage: true,
	RunE: hookRunE("analysis_performed", func(in *hook.Input) (*hook.Output, error) {
		if in.Prompt == "" {
			return hook.NewOutput().Skip("analysis_performed", "Empty prompt"), nil
		}

		ids := detect.LPNIDs(in.Prompt)
		hasComparison := detect.ComparisonIntent(in.Prompt)
		traitFocus := detect.TraitFocus(in.Prompt)

		if len(ids) < 2 && !hasComparison {
			return hook.NewOutput().
				Set("analysis_performed", true).
				Set("comparative_analysis_suggested", false).
				Set("reason", "No comparative analysis detected"), nil
		}

		out := hook.NewOutput().
			Set("analysis_performed", true).
			Set("comparative_analysis_suggested", true).
			Set("animals_detected", len(ids)).
			Set("animal_ids", ids).
			Set("comparison_intent", hasComparison).
			Set("trait_focus", traitFocus)
		out.Context = detect.ComparisonSuggestion(ids, hasComparison, traitFocus)
		return out, nil
	}),
}

func init() {
	hookCmd.AddCommand(hookCompareCmd)
}
