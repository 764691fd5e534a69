// Package logbook appends structured records of hook activity to JSONL
// files. One file per record kind, one JSON object per line, append-only:
// the files double as an audit trail and as input for status reporting.
package logbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// File names under the logs directory.
const (
	QueriesFile    = "queries.jsonl"
	RetriesFile    = "retries.jsonl"
	FallbacksFile  = "fallbacks.jsonl"
	DetectionsFile = "detections.jsonl"
)

// QueryEntry records one NSIP tool invocation.
type QueryEntry struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Tool       string         `json:"tool"`
	Params     map[string]any `json:"params,omitempty"`
	Succeeded  bool           `json:"succeeded"`
	Error      string         `json:"error,omitempty"`
	ResultSize int            `json:"result_size,omitempty"`
	DurationMs float64        `json:"duration_ms,omitempty"`
}

// RetryEntry records one retry sequence after a failed tool call.
type RetryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Attempts  int       `json:"attempts"`
	Recovered bool      `json:"recovered"`
	LastError string    `json:"last_error,omitempty"`
}

// FallbackEntry records one stale-cache serve while the API was down.
type FallbackEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	AgeHours  float64   `json:"age_hours"`
}

// DetectionEntry records LPN IDs or search intent spotted in a prompt.
type DetectionEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Values    []string  `json:"values,omitempty"`
}

// Book appends entries under a single logs directory.
type Book struct {
	dir string
}

// New returns a Book rooted at the given logs directory.
func New(dir string) *Book {
	return &Book{dir: dir}
}

// Dir returns the logs directory.
func (b *Book) Dir() string { return b.dir }

// AppendQuery stamps and appends a query record, returning its ID.
func (b *Book) AppendQuery(e QueryEntry) (string, error) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now().UTC()
	return e.ID, b.append(QueriesFile, e)
}

// AppendRetry stamps and appends a retry record, returning its ID.
func (b *Book) AppendRetry(e RetryEntry) (string, error) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now().UTC()
	return e.ID, b.append(RetriesFile, e)
}

// AppendFallback stamps and appends a fallback record, returning its ID.
func (b *Book) AppendFallback(e FallbackEntry) (string, error) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now().UTC()
	return e.ID, b.append(FallbacksFile, e)
}

// AppendDetection stamps and appends a detection record, returning its ID.
func (b *Book) AppendDetection(e DetectionEntry) (string, error) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now().UTC()
	return e.ID, b.append(DetectionsFile, e)
}

func (b *Book) append(name string, v any) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(b.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log %s: %w", name, err)
	}
	defer f.Close()

	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", name, err)
	}
	return nil
}

// Tail returns the last n raw JSON lines of the named log, oldest first.
// Lines that fail to parse as JSON are skipped; a missing file yields an
// empty slice.
func (b *Book) Tail(name string, n int) ([]json.RawMessage, error) {
	f, err := os.Open(filepath.Join(b.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", name, err)
	}
	defer f.Close()

	var lines []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if !json.Valid(raw) {
			continue
		}
		lines = append(lines, json.RawMessage(append([]byte(nil), raw...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log %s: %w", name, err)
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Count returns the number of entries in the named log.
func (b *Book) Count(name string) (int, error) {
	lines, err := b.Tail(name, 0)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}
