package catalog

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/model"
)

// ScoredRequiredColumns are the columns the plan builder needs from the
// scored-events artifact.
var ScoredRequiredColumns = []string{ColName, ColCity, ColStartDate, ColEndDate, ColRelevanceScore}

// EventHeader returns the canonical filtered-events header.
func EventHeader() []string {
	header := []string{ColName, ColCity, ColState, ColStartDate, ColEndDate, ColStartTime}
	return append(header, model.Categories...)
}

// ScoredHeader returns the canonical scored-events header.
func ScoredHeader() []string {
	return append(EventHeader(), ColRelevanceScore)
}

func eventRow(ev model.Event, extra []string) []string {
	row := []string{ev.Name, ev.City, ev.State, ev.StartDate.String(), ev.EndDate.String(), ev.StartTime}
	for _, cat := range model.Categories {
		row = append(row, strconv.Itoa(ev.CategoryValue(cat)))
	}
	for _, col := range extra {
		row = append(row, extraValue(ev, col))
	}
	return row
}

// extraColumns returns the union of the events' extra column names in
// first-seen order.
func extraColumns(n int, at func(i int) model.Event) []string {
	var cols []string
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		for _, f := range at(i).Extra {
			if !seen[f.Name] {
				seen[f.Name] = true
				cols = append(cols, f.Name)
			}
		}
	}
	return cols
}

func extraValue(ev model.Event, col string) string {
	for _, f := range ev.Extra {
		if f.Name == col {
			return f.Value
		}
	}
	return ""
}

// FormatScore renders a relevance score exactly as stored in artifacts.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteEvents writes the filtered-events artifact: the canonical columns
// followed by any other catalog columns the events carry.
func WriteEvents(w io.Writer, events []model.Event) error {
	extra := extraColumns(len(events), func(i int) model.Event { return events[i] })

	cw := csv.NewWriter(w)
	if err := cw.Write(append(EventHeader(), extra...)); err != nil {
		return eris.Wrap(err, "catalog: write header")
	}
	for _, ev := range events {
		if err := cw.Write(eventRow(ev, extra)); err != nil {
			return eris.Wrapf(err, "catalog: write row %q", ev.Name)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "catalog: flush csv")
}

// WriteScoredEvents writes the scored-events artifact. The relevance score
// follows the canonical columns; extra catalog columns come last.
func WriteScoredEvents(w io.Writer, events []model.ScoredEvent) error {
	extra := extraColumns(len(events), func(i int) model.Event { return events[i].Event })

	cw := csv.NewWriter(w)
	if err := cw.Write(append(ScoredHeader(), extra...)); err != nil {
		return eris.Wrap(err, "catalog: write header")
	}
	for _, ev := range events {
		row := eventRow(ev.Event, nil)
		row = append(row, FormatScore(ev.RelevanceScore))
		for _, col := range extra {
			row = append(row, extraValue(ev.Event, col))
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "catalog: write row %q", ev.Name)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "catalog: flush csv")
}

// ParseScoredEvents reads the scored-events artifact. Rows with unusable
// dates or scores are dropped.
func ParseScoredEvents(t *Table, artifact string) ([]model.ScoredEvent, error) {
	if err := t.Require(artifact, ScoredRequiredColumns...); err != nil {
		return nil, err
	}

	out := make([]model.ScoredEvent, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		ev, ok := parseEvent(t, row)
		if !ok {
			dropped++
			continue
		}
		score, err := strconv.ParseFloat(t.Get(row, ColRelevanceScore), 64)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, model.ScoredEvent{Event: ev, RelevanceScore: score})
	}

	if dropped > 0 {
		zap.L().Warn("catalog: dropped unusable scored rows",
			zap.String("artifact", artifact),
			zap.Int("dropped", dropped),
		)
	}
	return out, nil
}
