package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLPN(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"plain numeric", "6401234202412345", true},
		{"hash padded", "6####92020###249", true},
		{"flock code", "NSWK123456", true},
		{"underscore and dash", "ab_12-34", true},
		{"too short", "ab12", false},
		{"too long", "123456789012345678901234567890123456789012345678901", false},
		{"illegal chars", "abc 123", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidLPN(tt.id))
		})
	}
}

func TestValidateLPNMessages(t *testing.T) {
	assert.EqualError(t, ValidateLPN(""), "LPN ID cannot be empty")
	assert.EqualError(t, ValidateLPN("ab1"), "LPN ID 'ab1' is too short (minimum 5 characters)")
	assert.EqualError(t, ValidateLPN("a b c d e"), "LPN ID 'a b c d e' contains invalid characters (only alphanumeric, #, -, _ allowed)")
	assert.NoError(t, ValidateLPN("  6401234202412345  "))
}

func TestLPNIDs(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{"bare numeric", "look up 621879202000024 please", []string{"621879202000024"}},
		{"flock code", "what about NSWK123456?", []string{"NSWK123456"}},
		{"labelled", "fetch LPN:ABC123 for me", []string{"ABC123"}},
		{"hash padded", "compare 6####92020###249 stats", []string{"6####92020###249"}},
		{"none", "how do sheep EBVs work?", nil},
		{"deduplicated", "621879202000024 and again 621879202000024", []string{"621879202000024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LPNIDs(tt.prompt))
		})
	}
}

func TestLPNIDsMultiple(t *testing.T) {
	ids := LPNIDs("compare 621879202000024 with 640123420241234")
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "621879202000024")
	assert.Contains(t, ids, "640123420241234")
}

func TestQueryIntents(t *testing.T) {
	i := QueryIntents("Find the pedigree and compare the wool traits")
	assert.True(t, i.SearchAnimal)
	assert.True(t, i.GetLineage)
	assert.True(t, i.CompareTraits)
	assert.True(t, i.TraitAnalysis)
	assert.False(t, i.GetProgeny)
	assert.True(t, i.Any())

	assert.False(t, QueryIntents("hello there").Any())
}

func TestComparisonIntent(t *testing.T) {
	assert.True(t, ComparisonIntent("which ram is better?"))
	assert.True(t, ComparisonIntent("show me both animals"))
	assert.False(t, ComparisonIntent("hello"))
}

func TestTraitFocus(t *testing.T) {
	focus := TraitFocus("interested in wool micron and worm resistance")
	assert.Equal(t, []string{"wool", "parasite"}, focus)
	assert.Nil(t, TraitFocus("nothing relevant here"))
}

func TestSearchSuggestionSingleID(t *testing.T) {
	msg := SearchSuggestion([]string{"621879202000024"}, Intents{})
	assert.Contains(t, msg, "I detected an LPN ID in your query: 621879202000024")
	assert.Contains(t, msg, "nsip_get_animal or nsip_search_by_lpn")
}

func TestSearchSuggestionLineage(t *testing.T) {
	msg := SearchSuggestion([]string{"621879202000024"}, Intents{GetLineage: true})
	assert.Contains(t, msg, "nsip_get_lineage")
}

func TestSearchSuggestionTraitOnly(t *testing.T) {
	msg := SearchSuggestion(nil, Intents{TraitAnalysis: true})
	assert.Contains(t, msg, "nsip_search_animals")
}

func TestComparisonSuggestionEmptyWhenIrrelevant(t *testing.T) {
	assert.Empty(t, ComparisonSuggestion([]string{"only-one-1234"}, false, nil))
}

func TestComparisonSuggestionTwoAnimals(t *testing.T) {
	msg := ComparisonSuggestion([]string{"a1234567890", "b1234567890"}, true, []string{"wool"})
	assert.Contains(t, msg, "I detected 2 animals")
	assert.Contains(t, msg, "Compare wool traits")
	assert.Contains(t, msg, "nsip_get_lineage")
}
