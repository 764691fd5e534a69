package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boshu2/nsipops/cli/internal/breeds"
	"github.com/boshu2/nsipops/cli/internal/hook"
)

var hookBreedContextCmd = &cobra.Command{
	Use:          "breed-context",
	Short:        "Inject breed characteristics for search queries (PreToolUse)",
	SilenceUsage: true,
	RunE: hookRunE("context_injected", func(in *hook.Input) (*hook.Output, error) {
		name := strings.ToLower(in.Tool.Name)
		if !strings.Contains(name, "search_animals") && !strings.Contains(name, "get_trait_ranges") {
			return hook.NewOutput().Skip("context_injected", "Not a relevant tool"), nil
		}

		breedID := breeds.ParamID(in.Tool.Parameters)
		if breedID == "" {
			return hook.NewOutput().Skip("context_injected", "No breed_id found in parameters"), nil
		}

		cfg := mustConfig()
		breed := breeds.Lookup(breedID, filepath.Join(cfg.BaseDir, "breeds"))
		if breed == nil {
			return hook.NewOutput().Skip("context_injected",
				fmt.Sprintf("Breed information not found for breed_id: %s", breedID)), nil
		}

		out := hook.NewOutput().
			Set("context_injected", true).
			Set("breed_id", breedID).
			Set("breed_name", breed.Name)
		out.Context = breed.Context()
		return out, nil
	}),
}

func init() {
	hookCmd.AddCommand(hookBreedContextCmd)
}
