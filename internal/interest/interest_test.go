package interest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: text}}}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClean(t *testing.T) {
	v := Clean(map[string]any{
		"heritage_walk":  0.9,
		"nightlife":      1.7,
		"food_culinary":  -0.2,
		"seaside_beach":  "0.5",
		"sunset_view":    "lots",
		"local_fair":     true,
		"not_a_category": 1.0,
	})

	assert.Len(t, v, len(model.Categories))
	assert.InDelta(t, 0.9, v["heritage_walk"], 1e-9)
	assert.InDelta(t, 1.0, v["nightlife"], 1e-9)
	assert.Zero(t, v["food_culinary"])
	assert.InDelta(t, 0.5, v["seaside_beach"], 1e-9)
	assert.Zero(t, v["sunset_view"])
	assert.InDelta(t, 1.0, v["local_fair"], 1e-9)
	assert.Zero(t, v["river_ghat"])
	_, ok := v["not_a_category"]
	assert.False(t, ok)
}

func TestLoad_JSONAndYAML(t *testing.T) {
	jsonPath := writeFile(t, "input.json", `{"heritage_walk": 1, "nightlife": 0.25}`)
	yamlPath := writeFile(t, "input.yaml", "heritage_walk: 1\nnightlife: 0.25\n")

	for _, p := range []string{jsonPath, yamlPath} {
		v, err := Load(p)
		require.NoError(t, err, p)
		assert.InDelta(t, 1.0, v["heritage_walk"], 1e-9)
		assert.InDelta(t, 0.25, v["nightlife"], 1e-9)
	}
}

func TestLoad_NonObjectIsSchemaError(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json array", "a.json", `[1, 2]`},
		{"json null", "b.json", `null`},
		{"json garbage", "c.json", `{not json`},
		{"yaml list", "d.yaml", "- a\n- b\n"},
		{"empty yaml", "e.yml", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, model.IsSchemaError(err), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.False(t, model.IsSchemaError(err))
}

func TestSaveRoundTrip(t *testing.T) {
	v := FromWeights(map[string]float64{"heritage_walk": 0.8, "nightlife": 0.1})
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, Save(path, v))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`{"heritage_walk": 0.4}`))
	require.NoError(t, err)
	assert.InDelta(t, 0.4, v["heritage_walk"], 1e-9)

	_, err = Parse([]byte(`null`))
	assert.True(t, model.IsSchemaError(err))
}

func TestExtract(t *testing.T) {
	mc := new(mockAnthropicClient)
	mc.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "test-model" &&
			req.Temperature != nil && *req.Temperature == 0 &&
			len(req.Messages) == 1 &&
			strings.Contains(req.Messages[0].Content, "heritage_walk") &&
			strings.Contains(req.Messages[0].Content, `"I love old forts"`)
	})).Return(textResponse("```json\n{\"heritage_walk\": 0.95, \"nightlife\": 2}\n```"), nil)

	v, err := NewExtractor(mc, "test-model", 512).Extract(context.Background(), "  I love old forts  ")
	require.NoError(t, err)
	assert.InDelta(t, 0.95, v["heritage_walk"], 1e-9)
	assert.InDelta(t, 1.0, v["nightlife"], 1e-9)
	assert.Len(t, v, len(model.Categories))
	mc.AssertExpectations(t)
}

func TestExtract_Errors(t *testing.T) {
	t.Run("blank text", func(t *testing.T) {
		mc := new(mockAnthropicClient)
		_, err := NewExtractor(mc, "m", 1).Extract(context.Background(), "   ")
		require.Error(t, err)
		assert.True(t, model.IsParamError(err))
		mc.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("api failure", func(t *testing.T) {
		mc := new(mockAnthropicClient)
		mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		_, err := NewExtractor(mc, "m", 1).Extract(context.Background(), "beaches")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interest: extract")
	})

	t.Run("not json", func(t *testing.T) {
		mc := new(mockAnthropicClient)
		mc.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("I think you like beaches"), nil)
		_, err := NewExtractor(mc, "m", 1).Extract(context.Background(), "beaches")
		require.Error(t, err)
		assert.True(t, model.IsSchemaError(err))
	})
}
