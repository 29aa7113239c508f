package planner

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/config"
	"github.com/sells-group/trip-planner/internal/model"
)

// Planner builds trip plans.
type Planner struct {
	cfg config.PlannerConfig
}

// New creates a Planner.
func New(cfg config.PlannerConfig) *Planner {
	return &Planner{cfg: cfg}
}

type cityGroup struct {
	city     string
	fixed    []model.ScoredEvent
	flexible []model.ScoredEvent
}

// Build groups events by case-folded city in order of first appearance,
// keeping the first-seen spelling as the display name. It derives each
// city's visit window and score, and orders cities by visit start.
// Every city present in events appears exactly once.
func (p *Planner) Build(events []model.ScoredEvent, tripStart, tripEnd model.Date) model.TripPlan {
	groups := make(map[string]*cityGroup)
	var order []*cityGroup

	for _, ev := range events {
		key := catalog.NormalizeCity(ev.City)
		g, ok := groups[key]
		if !ok {
			g = &cityGroup{city: strings.TrimSpace(ev.City)}
			groups[key] = g
			order = append(order, g)
		}
		if Classify(ev.Name, p.cfg.FlexibleKeywords) == model.EventTypeFlexible {
			g.flexible = append(g.flexible, ev)
		} else {
			g.fixed = append(g.fixed, ev)
		}
	}

	plan := model.TripPlan{
		TripStart: tripStart,
		TripEnd:   tripEnd,
		Cities:    make([]model.CityPlan, 0, len(order)),
	}
	for _, g := range order {
		plan.Cities = append(plan.Cities, p.buildCity(g, tripStart, tripEnd))
	}

	sort.SliceStable(plan.Cities, func(i, j int) bool {
		return plan.Cities[i].CityStartDate.Before(plan.Cities[j].CityStartDate)
	})

	zap.L().Info("planner: built plan",
		zap.String("trip_start", tripStart.String()),
		zap.String("trip_end", tripEnd.String()),
		zap.Int("cities", len(plan.Cities)),
		zap.Int("events", len(events)),
	)
	return plan
}

func (p *Planner) buildCity(g *cityGroup, tripStart, tripEnd model.Date) model.CityPlan {
	fixed := append([]model.ScoredEvent(nil), g.fixed...)
	sort.SliceStable(fixed, func(i, j int) bool {
		return fixed[i].StartDate.Before(fixed[j].StartDate)
	})

	cp := model.CityPlan{
		City:          g.city,
		CityStartDate: tripStart,
		CityEndDate:   tripEnd,
		Events:        make([]model.PlanEvent, 0, len(fixed)+len(g.flexible)),
	}

	if len(fixed) > 0 {
		cp.CityStartDate = fixed[0].StartDate
		cp.CityEndDate = fixed[0].EndDate
		for _, ev := range fixed[1:] {
			if ev.EndDate.After(cp.CityEndDate) {
				cp.CityEndDate = ev.EndDate
			}
		}

		var sum float64
		for _, ev := range fixed {
			sum += model.Round4(ev.RelevanceScore)
		}
		meanRelevance := sum / float64(len(fixed))
		density := DensityScore(AverageGapDays(fixed))
		cp.CityScore = model.Round4(p.cfg.RelevanceWeight*meanRelevance + p.cfg.DensityWeight*density)
	}

	for _, ev := range fixed {
		start, end := ev.StartDate, ev.EndDate
		cp.Events = append(cp.Events, model.PlanEvent{
			Name:         ev.Name,
			Type:         model.EventTypeFixed,
			StartDate:    &start,
			EndDate:      &end,
			DurationDays: DurationDays(start, end),
			Relevance:    model.Round4(ev.RelevanceScore),
		})
	}
	for _, ev := range g.flexible {
		cp.Events = append(cp.Events, model.PlanEvent{
			Name:         ev.Name,
			Type:         model.EventTypeFlexible,
			DurationDays: 1,
			Relevance:    model.Round4(ev.RelevanceScore),
		})
	}

	sort.SliceStable(cp.Events, func(i, j int) bool {
		return cp.Events[i].Relevance > cp.Events[j].Relevance
	})
	return cp
}
