package alert

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*Tracker, string) {
	t.Helper()
	dir := t.TempDir()
	return NewTracker(dir, 3, 5*time.Minute, 10*time.Minute), dir
}

func record(t *testing.T, tr *Tracker, tool string) Outcome {
	t.Helper()
	out, err := tr.Record(Failure{Tool: tool, Error: "connection refused"})
	require.NoError(t, err)
	return out
}

func TestBelowThresholdNoAlert(t *testing.T) {
	tr, dir := newTestTracker(t)
	record(t, tr, "nsip_get_animal")
	out := record(t, tr, "nsip_get_animal")

	assert.Equal(t, 2, out.Failures)
	assert.False(t, out.Alerted)
	assertAlertFiles(t, dir, 0)
}

func TestThirdFailureInWindowAlerts(t *testing.T) {
	tr, dir := newTestTracker(t)
	record(t, tr, "nsip_get_animal")
	record(t, tr, "nsip_search_by_lpn")
	out := record(t, tr, "nsip_get_lineage")

	assert.Equal(t, 3, out.Failures)
	assert.True(t, out.Alerted)
	assertAlertFiles(t, dir, 1)

	body, err := os.ReadFile(out.AlertPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Total Failures: 3 in the last 5 minutes")
	assert.Contains(t, string(body), "nsip_get_lineage: 1 failure(s)")
	assert.Contains(t, string(body), "TROUBLESHOOTING STEPS:")
}

func TestCooldownSuppressesSecondAlert(t *testing.T) {
	tr, dir := newTestTracker(t)
	record(t, tr, "a")
	record(t, tr, "b")
	first := record(t, tr, "c")
	require.True(t, first.Alerted)

	fourth := record(t, tr, "d")
	assert.False(t, fourth.Alerted)
	assert.True(t, fourth.Cooldown)
	assertAlertFiles(t, dir, 1)
}

func TestAlertFiresAgainAfterCooldown(t *testing.T) {
	tr, dir := newTestTracker(t)
	record(t, tr, "a")
	record(t, tr, "b")
	require.True(t, record(t, tr, "c").Alerted)

	// Step past the cooldown; the window check uses the same clock, so
	// the old failures fall out and fresh ones must build the burst anew.
	base := time.Now().Add(11 * time.Minute)
	tr.now = func() time.Time { return base }

	record(t, tr, "d")
	record(t, tr, "e")
	out := record(t, tr, "f")
	assert.True(t, out.Alerted)
	assertAlertFiles(t, dir, 2)
}

func TestOldFailuresFallOutOfWindow(t *testing.T) {
	tr, _ := newTestTracker(t)
	record(t, tr, "a")
	record(t, tr, "b")

	tr.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	out := record(t, tr, "c")
	assert.Equal(t, 1, out.Failures)
	assert.False(t, out.Alerted)
}

func TestCorruptStateStartsFresh(t *testing.T) {
	tr, dir := newTestTracker(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("garbage"), 0o600))

	out := record(t, tr, "a")
	assert.Equal(t, 1, out.Failures)
}

func TestResetClearsState(t *testing.T) {
	tr, _ := newTestTracker(t)
	record(t, tr, "a")
	require.NoError(t, tr.Reset())

	pending, err := tr.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func assertAlertFiles(t *testing.T, dir string, want int) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "ALERT_*.txt"))
	require.NoError(t, err)
	assert.Len(t, matches, want)
}
