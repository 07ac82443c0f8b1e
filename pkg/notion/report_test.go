package notion

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:       "8471 from KR",
		Category:    "8471",
		Origin:      "KR",
		Source:      "live",
		Confidence:  0.74,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Lines: []string{
			"1. United States (US) — score 0.820",
			"2. Vietnam (VN) — score 0.640",
			"excluded KP: sanctioned destination",
		},
	}
}

func TestPublishReport(t *testing.T) {
	t.Parallel()

	mc := new(MockClient)
	mc.On("CreatePage", mock.Anything, mock.AnythingOfType("*notionapi.PageCreateRequest")).
		Return(&notionapi.Page{ID: "page-1"}, nil)

	id, err := PublishReport(context.Background(), mc, "db-1", sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "page-1", id)

	req := mc.Calls[0].Arguments.Get(1).(*notionapi.PageCreateRequest)
	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)

	title := req.Properties["Name"].(notionapi.TitleProperty)
	require.Len(t, title.Title, 1)
	assert.Equal(t, "8471 from KR", title.Title[0].Text.Content)

	conf := req.Properties["Confidence"].(notionapi.NumberProperty)
	assert.InDelta(t, 0.74, conf.Number, 1e-9)

	// one bulleted block per line
	assert.Len(t, req.Children, 3)
	mc.AssertExpectations(t)
}

func TestPublishReportValidation(t *testing.T) {
	t.Parallel()

	mc := new(MockClient)

	_, err := PublishReport(context.Background(), mc, "", sampleReport())
	assert.Error(t, err)

	rep := sampleReport()
	rep.Title = ""
	_, err = PublishReport(context.Background(), mc, "db-1", rep)
	assert.Error(t, err)

	mc.AssertNotCalled(t, "CreatePage")
}

func TestPublishReportWrapsAPIError(t *testing.T) {
	t.Parallel()

	mc := new(MockClient)
	mc.On("CreatePage", mock.Anything, mock.AnythingOfType("*notionapi.PageCreateRequest")).
		Return(nil, assert.AnError)

	_, err := PublishReport(context.Background(), mc, "db-1", sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish report")
}
