package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/hook"
	"github.com/boshu2/nsipops/cli/internal/traits"
)

var hookTraitsCmd = &cobra.Command{
	Use:          "traits",
	Short:        "Inject trait definitions and breeding terminology (PreToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("context_injected", func(in *hook.Input) (*hook.Output, error) {
		if !in.Tool.IsNSIPTool() {
			return hook.NewOutput().Skip("context_injected", "Not an NSIP tool"), nil
		}

		detected := traits.Mentioned(in.Tool.Parameters)
		out := hook.NewOutput().
			Set("context_injected", true).
			Set("detected_traits", detected).
			Set("total_traits_available", traits.Count())
		out.Context = traits.ContextMessage(detected)
		return out, nil
	}),
}

func init() {
	hookCmd.AddCommand(hookTraitsCmd)
}
