package traits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tr, ok := Lookup("WWT")
	require.True(t, ok)
	assert.Equal(t, "Weaning Weight", tr.Name)
	assert.Equal(t, "kg", tr.Unit)

	tr, ok = Lookup("fec")
	require.True(t, ok)
	assert.Equal(t, "Faecal Egg Count", tr.Name)

	_, ok = Lookup("NOPE")
	assert.False(t, ok)
}

func TestCodesMatchDictionary(t *testing.T) {
	assert.Equal(t, Count(), len(Codes()))
	for _, code := range Codes() {
		_, ok := Lookup(code)
		assert.True(t, ok, "code %s missing from dictionary", code)
	}
}

func TestMentioned(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   []string
	}{
		{"direct value", map[string]any{"trait": "WWT"}, []string{"WWT"}},
		{"lowercase value", map[string]any{"trait": "pfat"}, []string{"PFAT"}},
		{"nested", map[string]any{"filters": map[string]any{"sort_by": "CFW"}}, []string{"CFW"}},
		{"multiple in order", map[string]any{"traits": []any{"FEC", "WWT"}}, []string{"WWT", "FEC"}},
		{"none", map[string]any{"lpn": "6212345"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentioned(tt.params))
		})
	}
}

func TestDescribe(t *testing.T) {
	line := Describe("FD")
	assert.Contains(t, line, "FD (Fiber Diameter)")
	assert.Contains(t, line, "Typical range: 15-25 microns")
	assert.Contains(t, line, "Significance: Determines wool quality and price")
}

func TestContextMessageWithDetected(t *testing.T) {
	msg := ContextMessage([]string{"WWT", "FEC"})
	assert.Contains(t, msg, "NSIP Trait Reference:")
	assert.Contains(t, msg, "Relevant traits in your query:")
	assert.Contains(t, msg, "WWT (Weaning Weight)")
	assert.Contains(t, msg, "FEC (Faecal Egg Count)")
	assert.Contains(t, msg, "EBV: Estimated Breeding Value")
}

func TestContextMessageCapsAtFive(t *testing.T) {
	msg := ContextMessage([]string{"WWT", "PWWT", "YWT", "PEMD", "PFAT", "FEC"})
	assert.Contains(t, msg, "PFAT")
	assert.NotContains(t, msg, "FEC (Faecal Egg Count)")
}

func TestContextMessageOverview(t *testing.T) {
	msg := ContextMessage(nil)
	assert.Contains(t, msg, "Common NSIP traits:")
	assert.Contains(t, msg, "WWT: Weaning Weight")
	assert.Contains(t, msg, "Key terminology:")
}
