// Package alert watches for bursts of NSIP API failures. Failures are
// recorded in a small state file; when enough land inside the sliding
// window an alert file is dropped in the logs directory, then a cooldown
// suppresses duplicates while the same outage rumbles on.
package alert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StateFile holds the rolling failure history and last-alert marker.
const StateFile = "failures.json"

// Failure is one recorded API failure.
type Failure struct {
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Error     string    `json:"error,omitempty"`
}

// state is the on-disk tracker state.
type state struct {
	Failures    []Failure `json:"failures"`
	LastAlertAt time.Time `json:"last_alert_at,omitempty"`
}

// Tracker records failures and raises alerts on bursts.
type Tracker struct {
	dir       string
	threshold int
	window    time.Duration
	cooldown  time.Duration
	now       func() time.Time
}

// NewTracker creates a tracker writing state and alerts under dir. An alert
// fires when threshold failures land within window, at most once per
// cooldown.
func NewTracker(dir string, threshold int, window, cooldown time.Duration) *Tracker {
	return &Tracker{dir: dir, threshold: threshold, window: window, cooldown: cooldown, now: time.Now}
}

// Outcome reports what Record did with a failure.
type Outcome struct {
	Failures  int    // failures currently inside the window
	Alerted   bool   // an alert file was written for this failure
	AlertPath string // path of the new alert file, when Alerted
	Cooldown  bool   // threshold was met but the cooldown suppressed it
}

// Record adds a failure, prunes everything older than the window, and
// writes an alert file when the burst threshold is reached outside the
// cooldown. State file problems are returned but the failure itself is
// never lost silently: a fresh state is started when the file is corrupt.
func (t *Tracker) Record(f Failure) (Outcome, error) {
	if f.Timestamp.IsZero() {
		f.Timestamp = t.now().UTC()
	}

	st, err := t.load()
	if err != nil {
		return Outcome{}, err
	}

	cutoff := t.now().Add(-t.window)
	kept := st.Failures[:0]
	for _, old := range st.Failures {
		if old.Timestamp.After(cutoff) {
			kept = append(kept, old)
		}
	}
	st.Failures = append(kept, f)

	out := Outcome{Failures: len(st.Failures)}
	if len(st.Failures) >= t.threshold {
		if st.LastAlertAt.IsZero() || t.now().Sub(st.LastAlertAt) >= t.cooldown {
			path, err := t.writeAlert(st.Failures)
			if err != nil {
				return out, err
			}
			st.LastAlertAt = t.now().UTC()
			out.Alerted = true
			out.AlertPath = path
		} else {
			out.Cooldown = true
		}
	}

	if err := t.save(st); err != nil {
		return out, err
	}
	return out, nil
}

// Reset clears the failure history and cooldown marker.
func (t *Tracker) Reset() error {
	path := filepath.Join(t.dir, StateFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset alert state: %w", err)
	}
	return nil
}

// Pending returns the failures currently inside the window.
func (t *Tracker) Pending() ([]Failure, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	cutoff := t.now().Add(-t.window)
	var live []Failure
	for _, f := range st.Failures {
		if f.Timestamp.After(cutoff) {
			live = append(live, f)
		}
	}
	return live, nil
}

func (t *Tracker) load() (*state, error) {
	data, err := os.ReadFile(filepath.Join(t.dir, StateFile))
	if os.IsNotExist(err) {
		return &state{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read alert state: %w", err)
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return &state{}, nil
	}
	return &st, nil
}

func (t *Tracker) save(st *state) error {
	if err := os.MkdirAll(t.dir, 0o700); err != nil {
		return fmt.Errorf("create alerts dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alert state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(t.dir, StateFile), data, 0o600); err != nil {
		return fmt.Errorf("write alert state: %w", err)
	}
	return nil
}

// troubleshootingTips are the steps included in every alert file.
var troubleshootingTips = []string{
	"Check your internet connection",
	"Verify the NSIP API is operational: http://nsipsearch.nsip.org",
	"Check if your API credentials are valid (if required)",
	"Try accessing the API directly in a browser",
	"Check the Claude Code logs for detailed error messages",
	"Wait a few minutes and try again - the API may be temporarily unavailable",
	"Contact NSIP support if the issue persists",
}

// writeAlert drops a human-readable alert file named by timestamp so each
// burst leaves exactly one artifact.
func (t *Tracker) writeAlert(failures []Failure) (string, error) {
	now := t.now().UTC()
	path := filepath.Join(t.dir, fmt.Sprintf("ALERT_%s.txt", now.Format("20060102_150405")))
	rule := strings.Repeat("=", 80)
	thinRule := strings.Repeat("-", 80)

	byTool := make(map[string]int)
	for _, f := range failures {
		byTool[f.Tool]++
	}
	tools := make([]string, 0, len(byTool))
	for tool := range byTool {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	lines := []string{
		rule,
		"NSIP API FAILURE ALERT",
		rule,
		"",
		fmt.Sprintf("Alert Time: %s UTC", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Total Failures: %d in the last %d minutes", len(failures), int(t.window.Minutes())),
		"",
		"AFFECTED TOOLS:",
		thinRule,
	}
	for _, tool := range tools {
		lines = append(lines, fmt.Sprintf("  %s: %d failure(s)", tool, byTool[tool]))
	}

	lines = append(lines, "", "FAILURE DETAILS:", thinRule)
	detail := failures
	if len(detail) > 5 {
		detail = detail[len(detail)-5:]
	}
	for i, f := range detail {
		reason := f.Error
		if reason == "" {
			reason = "unknown"
		}
		lines = append(lines,
			fmt.Sprintf("%d. Tool: %s", i+1, f.Tool),
			fmt.Sprintf("   Time: %s", f.Timestamp.Format(time.RFC3339)),
			fmt.Sprintf("   Error: %s", reason),
			"",
		)
	}

	lines = append(lines, "TROUBLESHOOTING STEPS:", thinRule)
	for i, tip := range troubleshootingTips {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, tip))
	}
	lines = append(lines, "", rule,
		"This alert was automatically generated by the NSIP plugin error notifier.", rule)

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return "", fmt.Errorf("write alert file: %w", err)
	}
	return path, nil
}
