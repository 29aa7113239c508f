package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/trip-planner/internal/model"
)

// NormalizeCity trims whitespace and case-folds a city name for comparison.
func NormalizeCity(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Filter returns the events in one of the requested cities whose date range
// overlaps [start, end], sorted by city, start date and start time (missing
// times last). It does not modify events. An empty normalized city set
// yields an empty result.
func Filter(events []model.Event, cities []string, start, end model.Date) []model.Event {
	wanted := make(map[string]bool, len(cities))
	for _, c := range cities {
		if n := NormalizeCity(c); n != "" {
			wanted[n] = true
		}
	}
	if len(wanted) == 0 {
		return []model.Event{}
	}

	out := make([]model.Event, 0)
	for _, ev := range events {
		if !wanted[NormalizeCity(ev.City)] {
			continue
		}
		if !ev.Overlaps(start, end) {
			continue
		}
		out = append(out, ev)
	}

	SortEvents(out)
	return out
}

// SortEvents orders events by (normalized city, start_date, start_time),
// with events lacking a start time after those that have one. The sort is
// stable.
func SortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if ca, cb := NormalizeCity(a.City), NormalizeCity(b.City); ca != cb {
			return ca < cb
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.HasStartTime() != b.HasStartTime() {
			return a.HasStartTime()
		}
		return a.StartMinute < b.StartMinute
	})
}
