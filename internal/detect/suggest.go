package detect

import (
	"fmt"
	"strings"
)

// SearchSuggestion builds the context message injected when LPN IDs or
// trait-analysis intent show up in a prompt. Empty when there is nothing
// useful to say.
func SearchSuggestion(ids []string, intents Intents) string {
	var lines []string

	switch {
	case len(ids) == 1:
		lines = append(lines, fmt.Sprintf("I detected an LPN ID in your query: %s", ids[0]))
	case len(ids) > 1:
		lines = append(lines, fmt.Sprintf("I detected multiple LPN IDs in your query: %s", strings.Join(ids, ", ")))
	}

	var suggestions []string
	if len(ids) > 0 {
		switch {
		case intents.GetLineage:
			suggestions = append(suggestions, "Use nsip_get_lineage to explore ancestry and pedigree")
		case intents.GetProgeny:
			suggestions = append(suggestions, "Use nsip_get_progeny to view offspring and descendants")
		case intents.CompareTraits && len(ids) > 1:
			suggestions = append(suggestions, "Use nsip_get_animal for each ID, then compare their trait values")
		case len(ids) == 1:
			suggestions = append(suggestions, "Consider using nsip_get_animal or nsip_search_by_lpn to retrieve full details")
		default:
			suggestions = append(suggestions, "Consider using nsip_get_animal for each ID to retrieve full details")
		}
	}
	if intents.TraitAnalysis && len(ids) == 0 {
		suggestions = append(suggestions, "Use nsip_search_animals to find animals with specific trait criteria")
	}

	if len(suggestions) > 0 {
		lines = append(lines, "\nSuggested NSIP tools:")
		for i, s := range suggestions {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, s))
		}
	}
	return strings.Join(lines, "\n")
}

// ComparisonSuggestion builds the comparative-analysis workflow message.
// Empty unless at least two animals or a comparison hint are present.
func ComparisonSuggestion(ids []string, hasComparison bool, traitFocus []string) string {
	if len(ids) < 2 && !hasComparison {
		return ""
	}

	var lines []string
	if len(ids) >= 2 {
		lines = append(lines, fmt.Sprintf("I detected %d animals in your query: %s", len(ids), strings.Join(ids, ", ")))
	} else {
		lines = append(lines, "I detected that you're interested in comparing animals.")
	}

	lines = append(lines, "\nSuggested comparative analysis workflow:")
	if len(ids) > 0 {
		lines = append(lines, "  1. Use nsip_get_animal for each LPN ID to retrieve full details")
	} else {
		lines = append(lines, "  1. Use nsip_search_animals to find animals matching your criteria")
	}
	if len(traitFocus) > 0 {
		lines = append(lines, fmt.Sprintf("  2. Compare %s traits across the animals", strings.Join(traitFocus, ", ")))
	} else {
		lines = append(lines, "  2. Compare key trait values (weights, EBVs, etc.)")
	}
	lines = append(lines,
		"  3. Consider genetic relationships using nsip_get_lineage",
		"  4. Evaluate breeding complementarity based on strengths/weaknesses",
		"\nComparison tips:",
		"  - Look at EBVs (Estimated Breeding Values) for genetic merit",
		"  - Consider trait accuracy and reliability scores",
		"  - Evaluate complementarity for breeding pairs",
		"  - Account for environmental differences in trait expression",
	)
	return strings.Join(lines, "\n")
}
