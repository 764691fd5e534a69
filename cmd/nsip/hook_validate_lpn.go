package main

import (
	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/detect"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

// validateLPN is the only filter allowed to block a tool call: a malformed
// LPN ID would just bounce off the API, so reject it with a clear message
// before the request is made.
var hookValidateLPNCmd = &cobra.Command{
	Use:          "validate-lpn",
	Short:        "Validate LPN IDs before NSIP tool calls (PreToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("validation", func(in *hook.Input) (*hook.Output, error) {
		id, ok := in.Tool.ParamString("lpn_id", "animal_id", "id")
		if !ok {
			return hook.NewOutput().
				Set("validation", "skipped").
				Set("reason", "No LPN ID parameter found"), nil
		}

		out := hook.NewOutput().
			Set("lpn_id", id).
			Set("tool", in.Tool.Name)
		if err := detect.ValidateLPN(id); err != nil {
			out.Continue = false
			out.Error = err.Error()
			return out.Set("validation", "failed"), nil
		}
		return out.Set("validation", "passed"), nil
	}),
}

func init() {
	hookCmd.AddCommand(hookValidateLPNCmd)
}
