// Package detect scans user prompt text for LPN IDs, query intent, and
// comparison opportunities. Detection is purely lexical: regexp patterns
// for the common LPN formats plus keyword scans for intent, so it is safe
// to run on every prompt.
package detect

import (
	"fmt"
	"regexp"
	"strings"
)

// lpnPatterns match the LPN formats seen in practice: hash-padded 16-digit
// IDs, letter-prefixed flock codes, long bare numerics, and an explicit
// "LPN:" label. The label pattern captures the ID after the marker.
var lpnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,4}#{0,10}\d{4,10}#{0,10}\d{1,4}\b`),
	regexp.MustCompile(`\b[A-Z]{2,4}\d{6,10}\b`),
	regexp.MustCompile(`\b\d{10,15}\b`),
	regexp.MustCompile(`\bLPN[:\s-]?([A-Z0-9#]+)\b`),
}

// validLPN is the character and length check applied before a tool call
// goes to the API.
var validLPN = regexp.MustCompile(`^[A-Za-z0-9#_-]{5,50}$`)

// lpnChars matches the allowed character set alone, for precise errors.
var lpnChars = regexp.MustCompile(`^[A-Za-z0-9#_-]+$`)

// ValidLPN reports whether the string is a well-formed LPN ID.
func ValidLPN(s string) bool {
	return validLPN.MatchString(s)
}

// ValidateLPN checks an LPN ID and returns a user-facing error describing
// what is wrong with it. Surrounding whitespace is ignored.
func ValidateLPN(id string) error {
	id = strings.TrimSpace(id)
	switch {
	case id == "":
		return fmt.Errorf("LPN ID cannot be empty")
	case len(id) < 5:
		return fmt.Errorf("LPN ID '%s' is too short (minimum 5 characters)", id)
	case len(id) > 50:
		return fmt.Errorf("LPN ID '%s' is too long (maximum 50 characters)", id)
	case !lpnChars.MatchString(id):
		return fmt.Errorf("LPN ID '%s' contains invalid characters (only alphanumeric, #, -, _ allowed)", id)
	}
	return nil
}

// LPNIDs returns every LPN-looking ID in the text, deduplicated in order
// of first appearance.
func LPNIDs(text string) []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, re := range lpnPatterns {
		if re.NumSubexp() > 0 {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				add(m[1])
			}
			continue
		}
		for _, m := range re.FindAllString(text, -1) {
			add(m)
		}
	}
	return ids
}

// Intents flags what the user appears to be asking for.
type Intents struct {
	SearchAnimal  bool `json:"search_animal"`
	GetLineage    bool `json:"get_lineage"`
	GetProgeny    bool `json:"get_progeny"`
	CompareTraits bool `json:"compare_traits"`
	TraitAnalysis bool `json:"trait_analysis"`
}

// Any reports whether at least one intent was detected.
func (i Intents) Any() bool {
	return i.SearchAnimal || i.GetLineage || i.GetProgeny || i.CompareTraits || i.TraitAnalysis
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// QueryIntents scans the prompt for intent keywords.
func QueryIntents(prompt string) Intents {
	text := strings.ToLower(prompt)
	return Intents{
		SearchAnimal:  containsAny(text, "search", "find", "look for", "locate"),
		GetLineage:    containsAny(text, "lineage", "pedigree", "parents", "ancestors", "family"),
		GetProgeny:    containsAny(text, "progeny", "offspring", "children", "descendants"),
		CompareTraits: containsAny(text, "compare", "comparison", "versus", "vs", "difference"),
		TraitAnalysis: containsAny(text, "trait", "ebv", "breeding value", "weight", "wool",
			"parasite", "resistance", "muscle", "fat"),
	}
}

// comparisonKeywords and multipleIndicators feed ComparisonIntent.
var comparisonKeywords = []string{
	"compare", "comparison", "versus", "vs", "vs.", "v.",
	"better", "worse", "difference", "between",
	"which", "best", "superior", "prefer",
	"against", "relative to", "compared to",
}

var multipleIndicators = []string{
	"animals", "sheep", "rams", "ewes",
	"these", "those", "both", "all",
	"multiple", "several", "few", "pair",
}

// ComparisonIntent reports whether the prompt hints at comparing animals.
func ComparisonIntent(prompt string) bool {
	text := strings.ToLower(prompt)
	return containsAny(text, comparisonKeywords...) || containsAny(text, multipleIndicators...)
}

// traitCategories maps reportable trait groups to their trigger keywords.
var traitCategories = []struct {
	name     string
	keywords []string
}{
	{"weight", []string{"weight", "wwt", "pwwt", "ywt"}},
	{"wool", []string{"wool", "fleece", "fiber", "micron", "cfw"}},
	{"meat", []string{"meat", "muscle", "carcass", "eye muscle", "fat"}},
	{"parasite", []string{"parasite", "worm", "fec", "wec", "resistance"}},
	{"growth", []string{"growth", "gain", "rate"}},
	{"reproduction", []string{"reproduction", "lambing", "fertility", "nlb", "nlw"}},
}

// TraitFocus returns the trait categories the prompt mentions.
func TraitFocus(prompt string) []string {
	text := strings.ToLower(prompt)
	var focus []string
	for _, cat := range traitCategories {
		if containsAny(text, cat.keywords...) {
			focus = append(focus, cat.name)
		}
	}
	return focus
}
