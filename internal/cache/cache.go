// Package cache is a file-backed TTL cache for NSIP query results. Each
// entry lives in its own JSON file named by a digest of the tool name and
// its canonical parameters, so identical queries hit the same file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry is one cached query result as stored on disk.
type Entry struct {
	Tool     string         `json:"tool"`
	Params   map[string]any `json:"params"`
	Result   map[string]any `json:"result"`
	CachedAt time.Time      `json:"cached_at"`
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CachedAt)
}

// Stats summarizes the on-disk cache.
type Stats struct {
	Entries   int   `json:"entries"`
	Fresh     int   `json:"fresh"`
	Stale     int   `json:"stale"`
	SizeBytes int64 `json:"size_bytes"`
}

// Store reads and writes cache entries under a single directory.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a store rooted at dir with the given freshness window.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// TTL returns the freshness window.
func (s *Store) TTL() time.Duration { return s.ttl }

// Key derives the cache key for a tool call. Parameters are marshaled with
// sorted keys so argument order never splits the cache.
func Key(tool string, params map[string]any) string {
	canonical, err := json.Marshal(params)
	if err != nil {
		canonical = []byte("{}")
	}
	sum := sha256.Sum256([]byte(tool + ":" + string(canonical)))
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Set writes a result for the tool call, replacing any previous entry.
func (s *Store) Set(tool string, params, result map[string]any) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	entry := Entry{Tool: tool, Params: params, Result: result, CachedAt: s.now().UTC()}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(s.path(Key(tool, params)), data, 0o600); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Get returns a fresh entry for the tool call, or nil when there is none.
// An expired entry is deleted on the spot so the cache never serves it
// again and the directory does not accumulate dead files.
func (s *Store) Get(tool string, params map[string]any) (*Entry, error) {
	entry, err := s.read(Key(tool, params))
	if err != nil || entry == nil {
		return nil, err
	}
	if entry.Age(s.now()) > s.ttl {
		_ = os.Remove(s.path(Key(tool, params)))
		return nil, nil
	}
	return entry, nil
}

// GetStale returns the entry regardless of age. Fallback serving uses this
// when the live API is down: old data beats no data, as long as the caller
// labels it with its age.
func (s *Store) GetStale(tool string, params map[string]any) (*Entry, error) {
	return s.read(Key(tool, params))
}

func (s *Store) read(key string) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is as good as missing; drop it.
		_ = os.Remove(s.path(key))
		return nil, nil
	}
	return &entry, nil
}

// Purge deletes every entry older than the TTL and returns the count.
func (s *Store) Purge() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scan cache dir: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		entry, err := s.read(de.Name()[:len(de.Name())-len(".json")])
		if err != nil {
			return removed, err
		}
		if entry == nil || entry.Age(s.now()) > s.ttl {
			if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("purge entry: %w", err)
			}
			removed++
		}
	}
	return removed, nil
}

// Clear deletes every entry and returns the count.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scan cache dir: %w", err)
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			return removed, fmt.Errorf("clear entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Stats walks the cache directory and counts fresh and stale entries.
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("scan cache dir: %w", err)
	}

	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entry, err := s.read(de.Name()[:len(de.Name())-len(".json")])
		if err != nil || entry == nil {
			continue
		}
		stats.Entries++
		stats.SizeBytes += info.Size()
		if entry.Age(s.now()) > s.ttl {
			stats.Stale++
		} else {
			stats.Fresh++
		}
	}
	return stats, nil
}

// List returns every readable entry, newest first. Corrupt files are
// skipped rather than deleted; Get handles eviction on the read path.
func (s *Store) List() ([]*Entry, error) {
	files, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan cache dir: %w", err)
	}

	var out []*Entry
	for _, de := range files {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		entry, err := s.read(de.Name()[:len(de.Name())-len(".json")])
		if err != nil || entry == nil {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CachedAt.After(out[j].CachedAt)
	})
	return out, nil
}
