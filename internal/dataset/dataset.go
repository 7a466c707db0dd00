// Package dataset reads labelled review datasets from flat files.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cognicore/ulasan/pkg/ulasan/internalerr"
)

// Dataset is a column of texts with optional integer labels.
type Dataset struct {
	Texts     []string
	Labels    []int
	HasLabels bool
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Texts) }

// Columns names the text and label fields.
type Columns struct {
	Text  string
	Label string
}

// DefaultColumns are used for empty Columns fields.
var DefaultColumns = Columns{Text: "text", Label: "label"}

func (c Columns) withDefaults() Columns {
	if c.Text == "" {
		c.Text = DefaultColumns.Text
	}
	if c.Label == "" {
		c.Label = DefaultColumns.Label
	}
	return c
}

// Load picks the reader from the file extension: .jsonl/.ndjson/.json read
// JSON lines, anything else is tab-separated.
func Load(path string, cols Columns) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return LoadJSONL(path, cols)
	}
	return LoadTSV(path, cols)
}

// LoadTSV reads a tab-separated file whose first row is a header. The label
// column is optional; when absent the dataset is unlabelled.
func LoadTSV(path string, cols Columns) (*Dataset, error) {
	cols = cols.withDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	textIdx, labelIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case cols.Text:
			textIdx = i
		case cols.Label:
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%s: no %q column: %w", path, cols.Text, internalerr.ErrInvalidInput)
	}

	ds := &Dataset{HasLabels: labelIdx >= 0}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if textIdx >= len(rec) {
			return nil, fmt.Errorf("%s line %d: missing text column: %w", path, line, internalerr.ErrInvalidInput)
		}
		ds.Texts = append(ds.Texts, rec[textIdx])

		if ds.HasLabels {
			if labelIdx >= len(rec) {
				return nil, fmt.Errorf("%s line %d: missing label column: %w", path, line, internalerr.ErrInvalidInput)
			}
			label, err := parseLabel(rec[labelIdx])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, line, err)
			}
			ds.Labels = append(ds.Labels, label)
		}
	}
	return ds, nil
}

// LoadJSONL reads one JSON object per line. Malformed lines are skipped with
// a warning. Labels are used only when every row carries one.
func LoadJSONL(path string, cols Columns) (*Dataset, error) {
	cols = cols.withDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	ds := &Dataset{HasLabels: true}
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var row map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			slog.Warn("skipping malformed JSON", "line", i+1, "path", path, "error", err)
			continue
		}

		var text string
		if err := json.Unmarshal(row[cols.Text], &text); err != nil {
			slog.Warn("skipping row without text", "line", i+1, "path", path, "column", cols.Text)
			continue
		}
		ds.Texts = append(ds.Texts, text)

		raw, ok := row[cols.Label]
		if !ok || !ds.HasLabels {
			ds.HasLabels = false
			continue
		}
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("%s line %d: label %s: %w", path, i+1, raw, internalerr.ErrInvalidInput)
			}
			num = json.Number(s)
		}
		label, err := parseLabel(num.String())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		ds.Labels = append(ds.Labels, label)
	}

	if len(ds.Texts) == 0 {
		return nil, fmt.Errorf("no valid rows found in %s: %w", path, internalerr.ErrInvalidInput)
	}
	if !ds.HasLabels {
		ds.Labels = nil
	}
	return ds, nil
}

// parseLabel accepts integers and integral floats such as "4.0".
func parseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("label %q is not an integer: %w", s, internalerr.ErrInvalidInput)
	}
	return int(f), nil
}
