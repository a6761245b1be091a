package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryRequestDefaults(t *testing.T) {
	q, err := ParseQueryRequest("u1", "2024-01-01", "2024-01-31", nil, nil, nil, "")
	require.NoError(t, err)

	assert.Equal(t, GroupByDay, q.GroupBy)
	assert.Equal(t, DefaultMetrics, q.Metrics)
	assert.Empty(t, q.Platforms)
	assert.Empty(t, q.Campaigns)
}

func TestParseQueryRequestValidationErrors(t *testing.T) {
	cases := []struct {
		name      string
		userID    string
		startDate string
		endDate   string
		platforms []string
		metrics   []string
		groupBy   string
		wantField string
	}{
		{"missing user", "", "2024-01-01", "2024-01-31", nil, nil, "", "userId"},
		{"missing start", "u1", "", "2024-01-31", nil, nil, "", "startDate"},
		{"missing end", "u1", "2024-01-01", "", nil, nil, "", "endDate"},
		{"bad start format", "u1", "01/01/2024", "2024-01-31", nil, nil, "", "startDate"},
		{"end before start", "u1", "2024-01-31", "2024-01-01", nil, nil, "", "endDate"},
		{"bad group by", "u1", "2024-01-01", "2024-01-31", nil, nil, "hourly", "groupBy"},
		{"bad platform", "u1", "2024-01-01", "2024-01-31", []string{"TIKTOK"}, nil, "", "platforms"},
		{"bad metric", "u1", "2024-01-01", "2024-01-31", nil, []string{"bounce_rate"}, "", "metrics"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseQueryRequest(tc.userID, tc.startDate, tc.endDate, tc.platforms, nil, tc.metrics, tc.groupBy)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestParseQueryRequestAcceptsDerivedMetrics(t *testing.T) {
	q, err := ParseQueryRequest("u1", "2024-01-01", "2024-01-31", nil, nil,
		[]string{"ctr", "conversion_rate", "cpc", "cpa", "roi"}, "week")
	require.NoError(t, err)
	assert.Equal(t, GroupByWeek, q.GroupBy)
	assert.Len(t, q.Metrics, 5)
}
