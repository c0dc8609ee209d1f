package ingest

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"lapanel.civiljustice.org.uk/internal/logging"
)

// readTable reads an entire CSV file into a header row and data rows. Inputs
// are fixed, versioned files of bounded size, so everything is read eagerly
// and any I/O or syntax problem is fatal.
func readTable(path string, logger *slog.Logger) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "read "+path)

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("reading %s: file is empty", path)
	}

	return records[0], records[1:], nil
}

// columnIndex resolves the named columns against a header row. A missing
// column means the input's schema has drifted from the documented layout,
// which aborts the run.
func columnIndex(path string, header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	resolved := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, name)
		}
		resolved[name] = i
	}

	return resolved, nil
}

// field returns a cell by resolved column index, tolerating ragged rows.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseFloat parses a numeric cell. Thousands separators appear in some ONS
// exports and are stripped before parsing.
func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(s, 64)
}

// coerceFloat parses a numeric cell, mapping anything unparseable to zero.
// Used only where the source is known to hold suppressed or blank values
// that the panel treats as zero.
func coerceFloat(s string) float64 {
	v, err := parseFloat(s)
	if err != nil {
		return 0
	}
	return v
}
