// Package itinerary turns a trip plan into a presentation-ready itinerary,
// either narrated by an LLM or as a deterministic fallback. The plan is the
// single source of truth: a narrated itinerary that changes any city, date or
// activity is rejected.
package itinerary

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-planner/internal/model"
)

// Itinerary is the UI-facing document built from a TripPlan.
type Itinerary struct {
	TripSummary TripSummary `json:"trip_summary"`
	Itinerary   []CityBlock `json:"itinerary"`
}

// TripSummary restates the trip window and the visited cities in plan order.
type TripSummary struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	CitiesCovered []string `json:"cities_covered"`
}

// CityBlock is one city's section of the itinerary.
type CityBlock struct {
	City         string      `json:"city"`
	VisitWindow  VisitWindow `json:"visit_window"`
	CityOverview string      `json:"city_overview"`
	CityReason   string      `json:"city_reason"`
	Activities   []Activity  `json:"activities"`
}

// VisitWindow mirrors a city's planned dates.
type VisitWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Activity is one plan event with narrative text attached.
type Activity struct {
	Title         string          `json:"title"`
	Type          model.EventType `json:"type"`
	DateInfo      string          `json:"date_info"`
	Description   string          `json:"description"`
	RelevanceNote string          `json:"relevance_note"`
}

// Fallback builds the minimal itinerary used when no narration is available.
func Fallback(plan model.TripPlan) Itinerary {
	it := Itinerary{
		TripSummary: TripSummary{
			StartDate:     plan.TripStart.String(),
			EndDate:       plan.TripEnd.String(),
			CitiesCovered: make([]string, 0, len(plan.Cities)),
		},
		Itinerary: make([]CityBlock, 0, len(plan.Cities)),
	}

	for _, c := range plan.Cities {
		it.TripSummary.CitiesCovered = append(it.TripSummary.CitiesCovered, c.City)

		block := CityBlock{
			City: c.City,
			VisitWindow: VisitWindow{
				StartDate: c.CityStartDate.String(),
				EndDate:   c.CityEndDate.String(),
			},
			CityOverview: "This city is included in your trip itinerary.",
			CityReason:   "This city contains events aligned with your selected interests.",
			Activities:   make([]Activity, 0, len(c.Events)),
		}
		for _, ev := range c.Events {
			block.Activities = append(block.Activities, Activity{
				Title:         ev.Name,
				Type:          ev.Type,
				DateInfo:      dateInfo(c.City, ev),
				Description:   "Planned activity during your visit.",
				RelevanceNote: "This activity aligns with your interests.",
			})
		}
		it.Itinerary = append(it.Itinerary, block)
	}
	return it
}

func dateInfo(city string, ev model.PlanEvent) string {
	if ev.Type == model.EventTypeFlexible || ev.StartDate == nil || ev.EndDate == nil {
		return fmt.Sprintf("Any free day in %s (1 day)", city)
	}
	return ev.StartDate.String() + " → " + ev.EndDate.String()
}

// WriteJSON writes the itinerary with two-space indentation.
func WriteJSON(w io.Writer, it Itinerary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(it), "itinerary: encode json")
}
