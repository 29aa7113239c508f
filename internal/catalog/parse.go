package catalog

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/model"
)

// RequiredColumns are the columns every catalog must carry.
var RequiredColumns = []string{ColName, ColCity, ColStartDate, ColEndDate}

// dateLayouts are tried in order. ISO comes first; the day-first forms match
// how the upstream catalog was historically exported.
var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

// Catalog is the set of admitted events plus a count of rows dropped for
// unusable dates.
type Catalog struct {
	Events  []model.Event
	Rows    int
	Dropped int
}

// Load opens and parses a catalog file.
func Load(path, sheet string) (*Catalog, error) {
	t, err := Open(path, sheet)
	if err != nil {
		return nil, err
	}
	cat, err := ParseEvents(t, "catalog")
	if err != nil {
		return nil, err
	}
	zap.L().Info("catalog: loaded",
		zap.String("path", path),
		zap.Int("rows", cat.Rows),
		zap.Int("events", len(cat.Events)),
		zap.Int("dropped", cat.Dropped),
	)
	return cat, nil
}

// ParseEvents converts table rows into events. Rows whose dates do not
// parse, or whose start is after their end, are dropped and counted.
func ParseEvents(t *Table, artifact string) (*Catalog, error) {
	if err := t.Require(artifact, RequiredColumns...); err != nil {
		return nil, err
	}

	cat := &Catalog{Rows: len(t.Rows), Events: make([]model.Event, 0, len(t.Rows))}
	firstBad := -1
	for i, row := range t.Rows {
		ev, ok := parseEvent(t, row)
		if !ok {
			cat.Dropped++
			if firstBad < 0 {
				firstBad = i + 2 // 1-based, after header
			}
			continue
		}
		cat.Events = append(cat.Events, ev)
	}

	if cat.Dropped > 0 {
		zap.L().Warn("catalog: dropped rows with unusable dates",
			zap.String("artifact", artifact),
			zap.Int("dropped", cat.Dropped),
			zap.Int("first_row", firstBad),
		)
	}
	return cat, nil
}

func parseEvent(t *Table, row []string) (model.Event, bool) {
	start, ok := parseDate(t.Get(row, ColStartDate))
	if !ok {
		return model.Event{}, false
	}
	end, ok := parseDate(t.Get(row, ColEndDate))
	if !ok || start.After(end) {
		return model.Event{}, false
	}

	startTime := t.Get(row, ColStartTime)
	ev := model.Event{
		Name:        t.Get(row, ColName),
		City:        t.Get(row, ColCity),
		State:       t.Get(row, ColState),
		StartDate:   start,
		EndDate:     end,
		StartTime:   startTime,
		StartMinute: parseMinute(startTime),
		Categories:  model.NewCategorySet(),
	}
	for _, cat := range model.Categories {
		if isActive(t.Get(row, cat)) {
			ev.Categories[cat] = struct{}{}
		}
	}
	ev.Extra = extraFields(t, row)
	return ev, true
}

// extraFields collects the cells of columns outside the canonical artifact
// schema, in header order. Duplicate and blank headers are skipped.
func extraFields(t *Table, row []string) []model.Field {
	var out []model.Field
	seen := make(map[string]bool)
	for i, col := range t.Header {
		if col == "" || seen[col] || isCanonical(col) {
			continue
		}
		seen[col] = true
		val := ""
		if i < len(row) {
			val = row[i]
		}
		out = append(out, model.Field{Name: col, Value: val})
	}
	return out
}

func isCanonical(col string) bool {
	switch col {
	case ColName, ColEventName, ColCity, ColState, ColStartDate, ColEndDate, ColStartTime, ColRelevanceScore:
		return true
	}
	return model.IsCategory(col)
}

func parseDate(s string) (model.Date, bool) {
	if s == "" {
		return model.Date{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return model.NewDate(ts.Year(), ts.Month(), ts.Day()), true
		}
	}
	return model.Date{}, false
}

// parseMinute returns minutes past midnight, or -1 when s is not a time.
func parseMinute(s string) int {
	if s == "" {
		return -1
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Hour()*60 + ts.Minute()
		}
	}
	return -1
}

// isActive reports whether a category cell holds exactly 1.
func isActive(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v == 1
}
