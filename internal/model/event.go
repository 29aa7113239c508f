package model

import (
	"strings"
)

// Event is a single catalog record. It is never mutated after loading.
type Event struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	State     string `json:"state"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
	// StartTime is the raw time-of-day text; empty means unknown. It only
	// affects ordering.
	StartTime string `json:"start_time,omitempty"`
	// StartMinute is StartTime as minutes past midnight, or -1 when
	// StartTime is empty or unparsable.
	StartMinute int         `json:"-"`
	Categories  CategorySet `json:"-"`
	// Extra holds the catalog's other columns in catalog order, carried
	// through to the tabular artifacts unchanged.
	Extra []Field `json:"-"`
}

// Field is one named cell of a catalog row.
type Field struct {
	Name  string
	Value string
}

// HasStartTime reports whether the event carries a usable start time.
func (e Event) HasStartTime() bool {
	return e.StartMinute >= 0
}

// Overlaps reports whether the event's inclusive date range intersects
// [start, end].
func (e Event) Overlaps(start, end Date) bool {
	return !e.StartDate.After(end) && !e.EndDate.Before(start)
}

// CategoryValue returns 1 if the category is active on the event, else 0.
func (e Event) CategoryValue(cat string) int {
	if e.Categories.Has(cat) {
		return 1
	}
	return 0
}

// ScoredEvent is an Event with its relevance score attached.
type ScoredEvent struct {
	Event
	RelevanceScore float64 `json:"relevance_score"`
}

// InterestVector maps category names to user weights in [0, 1]. Missing
// categories have weight 0.
type InterestVector map[string]float64

// Weight returns the weight for cat, 0 when absent.
func (v InterestVector) Weight(cat string) float64 {
	return v[cat]
}

// EventType classifies a planned activity.
type EventType string

const (
	EventTypeFixed    EventType = "fixed_event"
	EventTypeFlexible EventType = "flexible_activity"
)

// PlanEvent is one activity inside a CityPlan. Flexible activities carry no
// dates.
type PlanEvent struct {
	Name         string    `json:"name" yaml:"name"`
	Type         EventType `json:"type" yaml:"type"`
	StartDate    *Date     `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate      *Date     `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	DurationDays int       `json:"duration_days" yaml:"duration_days"`
	Relevance    float64   `json:"relevance" yaml:"relevance"`
}

// CityPlan is the schedule for one city.
type CityPlan struct {
	City          string      `json:"city" yaml:"city"`
	CityScore     float64     `json:"city_score" yaml:"city_score"`
	CityStartDate Date        `json:"city_start_date" yaml:"city_start_date"`
	CityEndDate   Date        `json:"city_end_date" yaml:"city_end_date"`
	Events        []PlanEvent `json:"events" yaml:"events"`
}

// TripPlan is the terminal artifact of the pipeline. Downstream consumers
// may add narrative but must not alter dates, scores, membership or order.
type TripPlan struct {
	TripStart Date       `json:"trip_start" yaml:"trip_start"`
	TripEnd   Date       `json:"trip_end" yaml:"trip_end"`
	Cities    []CityPlan `json:"cities" yaml:"cities"`
}

// TripRequest holds the caller-supplied trip parameters.
type TripRequest struct {
	Cities []string `json:"cities"`
	Start  Date     `json:"start"`
	End    Date     `json:"end"`
}

// Validate checks the trip window. An empty city list is not an error; it
// yields an empty selection downstream.
func (r TripRequest) Validate() error {
	if r.Start.IsZero() {
		return &ParamError{Param: "start", Reason: "trip start date is required"}
	}
	if r.End.IsZero() {
		return &ParamError{Param: "end", Reason: "trip end date is required"}
	}
	if r.Start.After(r.End) {
		return &ParamError{Param: "end", Reason: "trip end " + r.End.String() + " is before start " + r.Start.String()}
	}
	return nil
}

// SplitCities splits a comma-separated city list, trimming blanks.
func SplitCities(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
