// Package export turns NSIP query results into files an operator can use:
// CSV extracts, markdown breeding reports, and text pedigree trees. All
// outputs land under the exports directory with timestamped names.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Flatten collapses a nested record into a single-level map. Nested maps
// contribute underscore-joined keys; lists become comma-separated strings.
func Flatten(record map[string]any) map[string]string {
	flat := make(map[string]string)
	flattenInto(flat, "", record)
	return flat
}

func flattenInto(flat map[string]string, prefix string, record map[string]any) {
	for k, v := range record {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch t := v.(type) {
		case map[string]any:
			flattenInto(flat, key, t)
		case []any:
			parts := make([]string, len(t))
			for i, item := range t {
				parts[i] = fmt.Sprintf("%v", item)
			}
			flat[key] = strings.Join(parts, ", ")
		case nil:
			flat[key] = ""
		case float64:
			flat[key] = formatNumber(t)
		default:
			flat[key] = fmt.Sprintf("%v", t)
		}
	}
}

// formatNumber renders whole floats without a trailing .000000.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// ExtractRecords pulls the exportable rows out of a tool result. Results
// arrive in a few shapes: a wrapper with an animals/results/data/items
// list, a single animal object, or a content envelope around either.
func ExtractRecords(result map[string]any) []map[string]any {
	if result == nil {
		return nil
	}

	for _, key := range []string{"animals", "results", "data", "items"} {
		if list, ok := result[key].([]any); ok {
			return toRecords(list)
		}
	}

	if _, ok := result["lpn_id"]; ok {
		return []map[string]any{result}
	}
	if _, ok := result["animal_id"]; ok {
		return []map[string]any{result}
	}

	switch content := result["content"].(type) {
	case []any:
		return toRecords(content)
	case map[string]any:
		return ExtractRecords(content)
	}
	return nil
}

func toRecords(list []any) []map[string]any {
	var records []map[string]any
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}

// CSVFilename derives a timestamped export name from the tool name.
func CSVFilename(tool string, now time.Time) string {
	base := strings.TrimPrefix(tool, "mcp__nsip__")
	base = strings.ReplaceAll(base, "__", "_")
	return fmt.Sprintf("%s_%s.csv", base, now.UTC().Format("20060102_150405"))
}

// WriteCSV flattens the records and writes them as CSV under dir. The
// header is the sorted union of every record's keys; missing cells are
// left empty. Returns the file path.
func WriteCSV(dir, filename string, records []map[string]any) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records to export")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create exports dir: %w", err)
	}

	flat := make([]map[string]string, len(records))
	keySet := make(map[string]bool)
	for i, rec := range records {
		flat[i] = Flatten(rec)
		for k := range flat[i] {
			keySet[k] = true
		}
	}
	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range flat {
		for i, k := range header {
			row[i] = rec[k]
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}
