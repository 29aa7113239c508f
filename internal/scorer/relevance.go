package scorer

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/config"
	"github.com/sells-group/trip-planner/internal/model"
)

// RequiredColumns are the columns the scorer needs from the filtered-events artifact.
var RequiredColumns = []string{catalog.ColName, catalog.ColCity, catalog.ColState, catalog.ColStartDate, catalog.ColEndDate}

// Result explains a single event's score.
type Result struct {
	Score   float64  `json:"score"`
	Matched []string `json:"matched,omitempty"`
	Tourism bool     `json:"tourism"`
}

// Scorer computes relevance scores.
type Scorer struct {
	bias    float64
	tourism model.CategorySet
}

// New creates a Scorer from cfg. An empty tourism list means no event gets the bias.
func New(cfg config.ScorerConfig) *Scorer {
	return &Scorer{
		bias:    cfg.TourismBias,
		tourism: model.NewCategorySet(cfg.TourismCategories...),
	}
}

// Score attaches a relevance score to every event, preserving input order.
func (s *Scorer) Score(events []model.Event, vector model.InterestVector) ([]model.ScoredEvent, error) {
	if vector == nil {
		return nil, &model.SchemaError{Artifact: "interest vector", Reason: "no interest vector supplied"}
	}

	out := make([]model.ScoredEvent, len(events))
	var withOverlap, withBias int
	for i, ev := range events {
		r := s.ScoreEvent(ev, vector)
		if len(r.Matched) > 0 {
			withOverlap++
		}
		if r.Tourism {
			withBias++
		}
		out[i] = model.ScoredEvent{Event: ev, RelevanceScore: r.Score}
	}

	zap.L().Info("scorer: scored events",
		zap.Int("events", len(out)),
		zap.Int("interest_overlap", withOverlap),
		zap.Int("tourism_bias", withBias),
	)
	return out, nil
}

// ScoreEvent computes one event's score: the weighted average match over
// the categories the event carries and the user weights above zero, plus
// the tourism bias, clamped to [0, 1] and rounded to 4 decimals. Categories
// the event lacks do not lower the score.
func (s *Scorer) ScoreEvent(ev model.Event, vector model.InterestVector) Result {
	var score, weightSum float64
	var matched []string

	for _, cat := range model.Categories {
		w := vector.Weight(cat)
		if w > 0 && ev.CategoryValue(cat) == 1 {
			score += w * 1
			weightSum += w
			matched = append(matched, cat)
		}
	}

	if weightSum > 0 {
		score /= weightSum
	} else {
		score = 0
	}

	tourism := false
	for cat := range ev.Categories {
		if s.tourism.Has(cat) {
			tourism = true
			break
		}
	}
	if tourism {
		score += s.bias
	}

	score = math.Max(0, math.Min(1, score))
	return Result{Score: model.Round4(score), Matched: matched, Tourism: tourism}
}

// Rank returns a copy of scored sorted by relevance descending. Ties keep
// their input order.
func Rank(scored []model.ScoredEvent) []model.ScoredEvent {
	out := append([]model.ScoredEvent(nil), scored...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

// ParseInput converts a filtered-events table into events, checking the
// columns the scorer depends on.
func ParseInput(t *catalog.Table) ([]model.Event, error) {
	if err := t.Require("filtered events", RequiredColumns...); err != nil {
		return nil, err
	}
	cat, err := catalog.ParseEvents(t, "filtered events")
	if err != nil {
		return nil, err
	}
	return cat.Events, nil
}
