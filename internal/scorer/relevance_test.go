package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/model"
)

func event(name string, cats ...string) model.Event {
	return model.Event{
		Name:        name,
		City:        "Jaipur",
		StartDate:   model.MustDate("2026-03-01"),
		EndDate:     model.MustDate("2026-03-01"),
		StartMinute: -1,
		Categories:  model.NewCategorySet(cats...),
	}
}

func defaultScorer() *Scorer {
	return New(DefaultScorerConfig())
}

func TestScoreEvent(t *testing.T) {
	tests := []struct {
		name    string
		cats    []string
		vector  model.InterestVector
		want    float64
		matched []string
		tourism bool
	}{
		{
			name:    "heritage walk scenario clamps to 1",
			cats:    []string{"heritage_walk"},
			vector:  model.InterestVector{"heritage_walk": 0.8},
			want:    1.0,
			matched: []string{"heritage_walk"},
			tourism: true,
		},
		{
			name:   "no overlap no tourism",
			cats:   []string{"nightlife"},
			vector: model.InterestVector{"food_culinary": 1},
			want:   0,
		},
		{
			name:    "bias alone without interest overlap",
			cats:    []string{"seaside_beach"},
			vector:  model.InterestVector{"nightlife": 1},
			want:    0.4,
			tourism: true,
		},
		{
			name:    "partial match is not penalized by absent categories",
			cats:    []string{"music_contemporary"},
			vector:  model.InterestVector{"music_contemporary": 0.3, "food_culinary": 1, "nightlife": 1},
			want:    1.0,
			matched: []string{"music_contemporary"},
		},
		{
			name:   "zero weights are ignored",
			cats:   []string{"nightlife"},
			vector: model.InterestVector{"nightlife": 0},
			want:   0,
		},
		{
			name:    "unknown keys tolerated",
			cats:    []string{"nightlife"},
			vector:  model.InterestVector{"nightlife": 0.5, "not_a_category": 1},
			want:    1.0,
			matched: []string{"nightlife"},
		},
		{
			name:   "empty vector",
			cats:   []string{"nightlife"},
			vector: model.InterestVector{},
			want:   0,
		},
	}

	s := defaultScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreEvent(event("e", tt.cats...), tt.vector)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.matched, got.Matched)
			assert.Equal(t, tt.tourism, got.Tourism)
		})
	}
}

func TestScoreEvent_BiasIsConfigurable(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.TourismBias = 0.25
	s := New(cfg)

	got := s.ScoreEvent(event("lake", "lake_activity"), model.InterestVector{})
	assert.InDelta(t, 0.25, got.Score, 1e-9)

	cfg.TourismCategories = nil
	got = New(cfg).ScoreEvent(event("lake", "lake_activity"), model.InterestVector{})
	assert.Zero(t, got.Score)
}

func TestScore_BoundsAndOrder(t *testing.T) {
	events := []model.Event{
		event("a", "heritage_walk", "river_ghat", "food_culinary"),
		event("b"),
		event("c", "nightlife", "music_contemporary"),
		event("d", "desert_experience"),
	}
	vector := model.InterestVector{"food_culinary": 1, "nightlife": 0.2}

	scored, err := defaultScorer().Score(events, vector)
	require.NoError(t, err)
	require.Len(t, scored, len(events))

	for i, se := range scored {
		assert.Equal(t, events[i].Name, se.Name, "input order preserved")
		assert.GreaterOrEqual(t, se.RelevanceScore, 0.0)
		assert.LessOrEqual(t, se.RelevanceScore, 1.0)
	}
	assert.Zero(t, scored[1].RelevanceScore)
}

func TestScore_NilVectorIsSchemaError(t *testing.T) {
	_, err := defaultScorer().Score([]model.Event{event("a")}, nil)
	require.Error(t, err)
	assert.True(t, model.IsSchemaError(err))
}

func TestScore_EmptyEvents(t *testing.T) {
	scored, err := defaultScorer().Score(nil, model.InterestVector{})
	require.NoError(t, err)
	assert.Empty(t, scored)
}

func TestRank_StableDescending(t *testing.T) {
	in := []model.ScoredEvent{
		{Event: event("low"), RelevanceScore: 0.1},
		{Event: event("tie-1"), RelevanceScore: 0.5},
		{Event: event("high"), RelevanceScore: 0.9},
		{Event: event("tie-2"), RelevanceScore: 0.5},
	}
	got := Rank(in)

	names := make([]string, len(got))
	for i, se := range got {
		names[i] = se.Name
	}
	assert.Equal(t, []string{"high", "tie-1", "tie-2", "low"}, names)
	assert.Equal(t, "low", in[0].Name, "input not modified")
}

func TestParseInput_RequiresState(t *testing.T) {
	tbl, err := catalog.ReadCSV(strings.NewReader("name,city,start_date,end_date\nA,Goa,2026-01-01,2026-01-01\n"))
	require.NoError(t, err)

	_, err = ParseInput(tbl)
	require.Error(t, err)
	assert.True(t, model.IsSchemaError(err))
	assert.Contains(t, err.Error(), "state")
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultScorerConfig()))

	cfg := DefaultScorerConfig()
	cfg.TourismBias = -0.1
	cfg.TourismCategories = append(cfg.TourismCategories, "volcano_tour")
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tourism_bias")
	assert.Contains(t, err.Error(), "volcano_tour")
}
