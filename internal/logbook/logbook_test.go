package logbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendQueryStampsIDAndTimestamp(t *testing.T) {
	b := New(t.TempDir())
	id, err := b.AppendQuery(QueryEntry{Tool: "nsip_get_animal", Succeeded: true})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	lines, err := b.Tail(QueriesFile, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	var got QueryEntry
	require.NoError(t, json.Unmarshal(lines[0], &got))
	assert.Equal(t, id, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "nsip_get_animal", got.Tool)
	assert.True(t, got.Succeeded)
}

func TestAppendIsOneLinePerEntry(t *testing.T) {
	b := New(t.TempDir())
	for i := 0; i < 3; i++ {
		_, err := b.AppendRetry(RetryEntry{Tool: "nsip_search_by_lpn", Attempts: i + 1})
		require.NoError(t, err)
	}
	count, err := b.Count(RetriesFile)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTailReturnsLastNOldestFirst(t *testing.T) {
	b := New(t.TempDir())
	for i := 0; i < 5; i++ {
		_, err := b.AppendDetection(DetectionEntry{Kind: "lpn", Values: []string{fmt.Sprintf("v%d", i)}})
		require.NoError(t, err)
	}

	lines, err := b.Tail(DetectionsFile, 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var first, second DetectionEntry
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, []string{"v3"}, first.Values)
	assert.Equal(t, []string{"v4"}, second.Values)
}

func TestTailSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	b := New(dir)
	_, err := b.AppendFallback(FallbackEntry{Tool: "nsip_get_animal", AgeHours: 2.5})
	require.NoError(t, err)

	f, err := os.OpenFile(filepath.Join(dir, FallbacksFile), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	lines, err := b.Tail(FallbacksFile, 0)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestTailMissingFileIsEmpty(t *testing.T) {
	b := New(t.TempDir())
	lines, err := b.Tail(QueriesFile, 10)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
