package planner

import (
	"strings"

	"github.com/sells-group/trip-planner/internal/model"
)

// Classify tags an event by name alone: a name containing every keyword
// (case-insensitive) is a flexible "explore the city" activity, anything
// else is a fixed event.
func Classify(name string, keywords []string) model.EventType {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if !strings.Contains(lower, strings.ToLower(k)) {
			return model.EventTypeFixed
		}
	}
	if len(keywords) == 0 {
		return model.EventTypeFixed
	}
	return model.EventTypeFlexible
}

// DurationDays returns the inclusive number of days from start to end.
func DurationDays(start, end model.Date) int {
	return start.DaysUntil(end) + 1
}

// AverageGapDays returns the mean idle-day gap between consecutive fixed
// events, which must already be sorted by start date. Overlapping or
// back-to-back events count as a gap of 0.
func AverageGapDays(fixed []model.ScoredEvent) float64 {
	if len(fixed) <= 1 {
		return 0
	}
	total := 0
	for i := 0; i < len(fixed)-1; i++ {
		gap := fixed[i].EndDate.DaysUntil(fixed[i+1].StartDate) - 1
		if gap > 0 {
			total += gap
		}
	}
	return float64(total) / float64(len(fixed)-1)
}

// DensityScore maps an average gap to (0, 1]; 1 means a fully packed schedule.
func DensityScore(avgGap float64) float64 {
	return 1 / (1 + avgGap)
}
