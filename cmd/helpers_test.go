package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-planner/internal/config"
	"github.com/sells-group/trip-planner/internal/model"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest(" Jaipur, ,Goa ", "2026-03-01", "2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jaipur", "Goa"}, req.Cities)
	assert.Equal(t, "2026-03-01", req.Start.String())
	assert.Equal(t, "2026-03-05", req.End.String())

	tests := []struct {
		name       string
		start, end string
		param      string
	}{
		{"bad start", "01/03/2026", "2026-03-05", "start"},
		{"bad end", "2026-03-01", "", "end"},
		{"reversed", "2026-03-05", "2026-03-01", "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRequest("Goa", tt.start, tt.end)
			require.Error(t, err)
			var pe *model.ParamError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.param, pe.Param)
		})
	}
}

func TestArtifactPath(t *testing.T) {
	withConfig(t, &config.Config{Artifacts: config.ArtifactsConfig{Dir: "out"}})

	assert.Equal(t, filepath.Join("out", "plan.json"), artifactPath("", "plan.json"))
	assert.Equal(t, "/tmp/custom.json", artifactPath("/tmp/custom.json", "plan.json"))
}

func TestLoadCatalog_NoPath(t *testing.T) {
	withConfig(t, &config.Config{})

	_, err := loadCatalog("")
	require.Error(t, err)
	assert.True(t, model.IsParamError(err))
}

func TestPlanEncoder(t *testing.T) {
	for _, f := range []string{"", "json", "yaml", "yml"} {
		enc, err := planEncoder(f)
		require.NoError(t, err, f)
		assert.NotNil(t, enc)
	}

	_, err := planEncoder("xml")
	require.Error(t, err)
	assert.True(t, model.IsParamError(err))
}

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCategories(&buf, model.NewCategorySet("seaside_beach")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(model.Categories)+1)
	assert.True(t, strings.HasPrefix(lines[0], "CATEGORY"))

	for _, l := range lines[1:] {
		fields := strings.Fields(l)
		if fields[0] == "seaside_beach" {
			assert.Equal(t, []string{"seaside_beach", "yes"}, fields)
		} else {
			assert.Len(t, fields, 1, l)
		}
	}
}

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	runs := []model.Run{{
		ID:     "run-1",
		Status: model.RunStatusComplete,
		Request: model.TripRequest{
			Cities: []string{"Jaipur", "Goa"},
			Start:  model.MustDate("2026-03-01"),
			End:    model.MustDate("2026-03-05"),
		},
		CreatedAt: created,
	}}

	var buf bytes.Buffer
	require.NoError(t, formatRunsList(&buf, runs))
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "Jaipur,Goa")
	assert.Contains(t, out, "2026-03-01..2026-03-05")
	assert.Contains(t, out, "2026-03-01T09:00:00Z")
}

func TestFormatRunDetail(t *testing.T) {
	run := &model.Run{ID: "run-1", Status: model.RunStatusFailed, Error: "boom"}
	phases := []model.RunPhase{{ID: "p1", RunID: "run-1", Name: model.PhaseFilter, Status: model.PhaseStatusFailed}}

	var buf bytes.Buffer
	require.NoError(t, formatRunDetail(&buf, run, phases))
	out := buf.String()
	assert.Contains(t, out, `"id": "run-1"`)
	assert.Contains(t, out, `"error": "boom"`)
	assert.Contains(t, out, `"phases": [`)
	assert.Contains(t, out, `"name": "filter"`)
}
