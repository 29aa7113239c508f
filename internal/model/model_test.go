package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories {
		assert.False(t, seen[c], "duplicate category %q", c)
		seen[c] = true
	}
	assert.Len(t, Categories, 45)
}

func TestTourismCategories_AreCategories(t *testing.T) {
	for _, c := range TourismCategories {
		assert.True(t, IsCategory(c), "tourism category %q not in enumeration", c)
	}
	assert.Len(t, TourismCategories, 14)
}

func TestCategorySet_Sorted(t *testing.T) {
	s := NewCategorySet("river_ghat", "zz_unknown", "religious_spiritual", "aa_unknown")
	assert.Equal(t, []string{"religious_spiritual", "river_ghat", "aa_unknown", "zz_unknown"}, s.Sorted())
}

func TestDate_DaysUntil(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2026-03-01", "2026-03-01", 0},
		{"2026-03-01", "2026-03-05", 4},
		{"2026-03-05", "2026-03-01", -4},
		{"2026-02-28", "2026-03-01", 1},
		{"2026-12-31", "2027-01-01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, MustDate(tt.from).DaysUntil(MustDate(tt.to)))
		})
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, 3, 1)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, got.Equal(d))
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/03/2026"`), &d))
}

func TestEvent_Overlaps(t *testing.T) {
	start, end := MustDate("2026-03-01"), MustDate("2026-03-05")
	tests := []struct {
		name       string
		evStart    string
		evEnd      string
		wantInside bool
	}{
		{"inside", "2026-03-02", "2026-03-03", true},
		{"ends on trip start", "2026-02-20", "2026-03-01", true},
		{"starts on trip end", "2026-03-05", "2026-03-09", true},
		{"spans trip", "2026-02-01", "2026-04-01", true},
		{"before", "2026-02-01", "2026-02-28", false},
		{"after", "2026-03-06", "2026-03-07", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{StartDate: MustDate(tt.evStart), EndDate: MustDate(tt.evEnd)}
			assert.Equal(t, tt.wantInside, e.Overlaps(start, end))
		})
	}
}

func TestTripRequest_Validate(t *testing.T) {
	ok := TripRequest{Cities: []string{"Goa"}, Start: MustDate("2026-03-01"), End: MustDate("2026-03-01")}
	assert.NoError(t, ok.Validate())

	noCities := TripRequest{Start: MustDate("2026-03-01"), End: MustDate("2026-03-02")}
	assert.NoError(t, noCities.Validate())

	reversed := TripRequest{Cities: []string{"Goa"}, Start: MustDate("2026-03-05"), End: MustDate("2026-03-01")}
	err := reversed.Validate()
	require.Error(t, err)
	assert.True(t, IsParamError(err))
	assert.False(t, IsSchemaError(err))

	missing := TripRequest{Cities: []string{"Goa"}, End: MustDate("2026-03-01")}
	assert.True(t, IsParamError(missing.Validate()))
}

func TestSchemaError_DetectedThroughWrap(t *testing.T) {
	base := NewSchemaError("catalog", "start_date", "city")
	assert.Equal(t, "catalog missing required columns: city, start_date", base.Error())

	assert.True(t, IsSchemaError(fmt.Errorf("outer: %w", base)))
	assert.True(t, IsSchemaError(eris.Wrap(base, "catalog: load")))
	assert.False(t, IsSchemaError(eris.New("catalog: other")))
}

func TestSplitCities(t *testing.T) {
	assert.Equal(t, []string{"Delhi", "Agra", "Goa"}, SplitCities(" Delhi, Agra ,,Goa "))
	assert.Nil(t, SplitCities(" , "))
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 0.6667, Round4(2.0/3.0))
	assert.Equal(t, 1.0, Round4(0.99999))
	assert.Equal(t, 0.0, Round4(0))
	assert.Equal(t, 0.1235, Round4(0.12346))
}
