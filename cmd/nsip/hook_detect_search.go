package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/detect"
	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/logbook"
)

var hookDetectSearchCmd = &cobra.Command{
	Use:          "detect-search",
	Short:        "Spot LPN IDs and search intent in prompts (UserPromptSubmit)",
	SilenceUsage: true,
	RunE: hookRunE("detection_performed", func(in *hook.Input) (*hook.Output, error) {
		if in.Prompt == "" {
			return hook.NewOutput().Skip("detection_performed", "Empty prompt"), nil
		}

		ids := detect.LPNIDs(in.Prompt)
		intents := detect.QueryIntents(in.Prompt)

		if len(ids) > 0 || intents.Any() {
			cfg := mustConfig()
			book := logbook.New(cfg.LogsDir())
			_, _ = book.AppendDetection(logbook.DetectionEntry{Kind: "lpn_ids", Values: ids})
		}

		out := hook.NewOutput().
			Set("detection_performed", true).
			Set("ids_detected", len(ids)).
			Set("detected_ids", ids).
			Set("intents", intents)
		out.Context = detect.SearchSuggestion(ids, intents)
		return out, nil
	}),
}

func init() {
	hookCmd.AddCommand(hookDetectSearchCmd)
}
