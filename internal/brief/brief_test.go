package brief

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/pkg/anthropic"
)

// mockClient implements anthropic.Client with a func field, capturing the
// request for inspection.
type mockClient struct {
	createFn func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
	lastReq  anthropic.MessageRequest
}

var _ anthropic.Client = (*mockClient)(nil)

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.lastReq = req
	return m.createFn(ctx, req)
}

func sampleResult() *recommend.Result {
	return &recommend.Result{
		Category: "8471",
		Origin:   "KR",
		Source:   "live",
		Rankings: []model.CountryScore{
			{
				Rank: 1, Country: "US", Name: "United States", Score: 0.82, RiskGrade: "A",
				Breakdown: model.Breakdown{}.
					Add("export_prediction", 36).
					Add("economic_indicators", 21.5),
			},
			{
				Rank: 2, Country: "VN", Name: "Vietnam", Score: 0.64,
				Warnings: []string{"restricted market: heightened due diligence"},
			},
		},
		Excluded: []model.Exclusion{{Country: "KP", Reason: "sanctioned destination"}},
		Confidence: confidence.Report{
			Score: 0.74, Level: "high", Interpretation: "most signals present",
		},
	}
}

func TestGenerateBuildsPromptFromResult(t *testing.T) {
	t.Parallel()

	mock := &mockClient{
		createFn: func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			return &anthropic.MessageResponse{
				Content: []anthropic.ContentBlock{{Type: "text", Text: "  The United States leads the ranking.  "}},
			}, nil
		},
	}

	g := New(mock, Params{Model: "claude-sonnet-4-5-20250929", MaxTokens: 1024})
	text, err := g.Generate(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "The United States leads the ranking.", text)

	require.Len(t, mock.lastReq.Messages, 1)
	prompt := mock.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "8471")
	assert.Contains(t, prompt, "United States")
	assert.Contains(t, prompt, "export_prediction: +36.0")
	assert.Contains(t, prompt, "KP: sanctioned destination")
	assert.Contains(t, prompt, "Confidence: 0.74 (high)")
	assert.Contains(t, mock.lastReq.System, "trade analyst")
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()
		g := New(&mockClient{}, Params{Model: "m", MaxTokens: 16})
		_, err := g.Generate(context.Background(), &recommend.Result{})
		assert.Error(t, err)
	})

	t.Run("api failure wrapped", func(t *testing.T) {
		t.Parallel()
		mock := &mockClient{
			createFn: func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
				return nil, eris.New("boom")
			},
		}
		g := New(mock, Params{Model: "m", MaxTokens: 16})
		_, err := g.Generate(context.Background(), sampleResult())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "brief: generate")
	})

	t.Run("empty response text", func(t *testing.T) {
		t.Parallel()
		mock := &mockClient{
			createFn: func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
				return &anthropic.MessageResponse{}, nil
			},
		}
		g := New(mock, Params{Model: "m", MaxTokens: 16})
		_, err := g.Generate(context.Background(), sampleResult())
		assert.Error(t, err)
	})
}

func TestRenderResultIsStable(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	first := renderResult(res)
	second := renderResult(res)
	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "Recommendation for HS category 8471"))
}
