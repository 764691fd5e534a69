package breeds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupBuiltin(t *testing.T) {
	b := Lookup("1", "")
	require.NotNil(t, b)
	assert.Equal(t, "Merino", b.Name)

	assert.Nil(t, Lookup("99", ""))
}

func TestLookupCustomOverride(t *testing.T) {
	dir := t.TempDir()
	custom := `{"name":"Katahdin","characteristics":"hair sheep, parasite resistant","key_traits":["weaning weight"],"breeding_focus":"low-maintenance meat production"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "breed_64.json"), []byte(custom), 0o600))

	b := Lookup("64", dir)
	require.NotNil(t, b)
	assert.Equal(t, "Katahdin", b.Name)
}

func TestLookupCorruptCustomIsUnknown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "breed_7.json"), []byte("{nope"), 0o600))
	assert.Nil(t, Lookup("7", dir))
}

func TestContextMessage(t *testing.T) {
	msg := Lookup("3", "").Context()
	assert.Contains(t, msg, "You are working with Poll Dorset breed.")
	assert.Contains(t, msg, "terminal sire breed, excellent meat production")
	assert.Contains(t, msg, "growth rate, muscle depth, fat depth")
	assert.Contains(t, msg, "Primary breeding focus: meat production and carcass quality.")
}

func TestParamID(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"snake case", map[string]any{"breed_id": "3"}, "3"},
		{"camel case", map[string]any{"breedId": "4"}, "4"},
		{"numeric", map[string]any{"breed": float64(5)}, "5"},
		{"capitalized", map[string]any{"Breed": "6"}, "6"},
		{"absent", map[string]any{"lpn": "123"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParamID(tt.params))
		})
	}
}

func TestIDsCoverTable(t *testing.T) {
	for _, id := range IDs() {
		assert.NotNil(t, Lookup(id, ""), "breed %s missing", id)
	}
}
