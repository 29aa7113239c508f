// Package catalog loads the event catalog, filters it to a trip window and
// selected cities, and reads and writes the tabular stage artifacts.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-planner/internal/model"
)

// Column names shared by every tabular artifact.
const (
	ColName           = "name"
	ColEventName      = "event_name"
	ColCity           = "city"
	ColState          = "state"
	ColStartDate      = "start_date"
	ColEndDate        = "end_date"
	ColStartTime      = "start_time"
	ColRelevanceScore = "relevance_score"
)

// Table is a header-indexed set of string rows.
type Table struct {
	Header []string
	Rows   [][]string
	colIdx map[string]int
}

// NewTable indexes records whose first row is the header. The catalog's
// legacy "event_name" header is accepted as "name".
func NewTable(records [][]string) *Table {
	t := &Table{colIdx: make(map[string]int)}
	if len(records) == 0 {
		return t
	}

	t.Header = make([]string, len(records[0]))
	for i, col := range records[0] {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		t.Header[i] = col
		if _, dup := t.colIdx[col]; !dup {
			t.colIdx[col] = i
		}
	}
	if _, ok := t.colIdx[ColName]; !ok {
		if idx, ok := t.colIdx[ColEventName]; ok {
			t.colIdx[ColName] = idx
		}
	}
	t.Rows = records[1:]
	return t
}

// Has reports whether the table has column col.
func (t *Table) Has(col string) bool {
	_, ok := t.colIdx[col]
	return ok
}

// Get safely retrieves a trimmed column value from a row.
func (t *Table) Get(row []string, col string) string {
	idx, ok := t.colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Require returns a SchemaError naming every column in cols that the table lacks.
func (t *Table) Require(artifact string, cols ...string) error {
	var missing []string
	for _, col := range cols {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return model.NewSchemaError(artifact, missing...)
	}
	return nil
}

// ReadCSV parses CSV records from r.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read csv")
	}
	return NewTable(records), nil
}

// Open reads a tabular file, choosing the format by extension. sheet selects
// the worksheet of an .xlsx file; empty means the first.
func Open(path, sheet string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err := ReadXLSX(path, XLSXOptions{SheetName: sheet})
		if err != nil {
			return nil, err
		}
		return NewTable(records), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}
