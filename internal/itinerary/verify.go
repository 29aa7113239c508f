package itinerary

import (
	"fmt"
	"strings"

	"github.com/sells-group/trip-planner/internal/model"
)

// Verify checks that it faithfully presents plan: the same trip window, the
// same cities with the same visit windows in the same order, and the same
// activities (title and type) in the same order. Narrative fields are free.
func Verify(plan model.TripPlan, it Itinerary) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if it.TripSummary.StartDate != plan.TripStart.String() || it.TripSummary.EndDate != plan.TripEnd.String() {
		add("trip window %s..%s, want %s..%s",
			it.TripSummary.StartDate, it.TripSummary.EndDate, plan.TripStart, plan.TripEnd)
	}

	if len(it.TripSummary.CitiesCovered) != len(plan.Cities) {
		add("cities_covered has %d cities, want %d", len(it.TripSummary.CitiesCovered), len(plan.Cities))
	} else {
		for i, c := range plan.Cities {
			if it.TripSummary.CitiesCovered[i] != c.City {
				add("cities_covered[%d] is %q, want %q", i, it.TripSummary.CitiesCovered[i], c.City)
			}
		}
	}

	if len(it.Itinerary) != len(plan.Cities) {
		add("itinerary has %d cities, want %d", len(it.Itinerary), len(plan.Cities))
		return &VerifyError{Problems: problems}
	}

	for i, c := range plan.Cities {
		b := it.Itinerary[i]
		if b.City != c.City {
			add("itinerary[%d] city %q, want %q", i, b.City, c.City)
			continue
		}
		if b.VisitWindow.StartDate != c.CityStartDate.String() || b.VisitWindow.EndDate != c.CityEndDate.String() {
			add("%s visit window changed", c.City)
		}
		if len(b.Activities) != len(c.Events) {
			add("%s has %d activities, want %d", c.City, len(b.Activities), len(c.Events))
			continue
		}
		for j, ev := range c.Events {
			a := b.Activities[j]
			if a.Title != ev.Name || a.Type != ev.Type {
				add("%s activity %d is %q (%s), want %q (%s)", c.City, j, a.Title, a.Type, ev.Name, ev.Type)
			}
		}
	}

	if len(problems) > 0 {
		return &VerifyError{Problems: problems}
	}
	return nil
}

// VerifyError lists every way an itinerary departs from its plan.
type VerifyError struct {
	Problems []string
}

func (e *VerifyError) Error() string {
	return "itinerary does not match plan: " + strings.Join(e.Problems, "; ")
}
