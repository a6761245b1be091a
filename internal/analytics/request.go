package analytics

import (
	"fmt"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
)

// DefaultMetrics is the metric column selection used when a query does
// not name any.
var DefaultMetrics = []string{"impressions", "clicks", "conversions", "cost"}

// validMetrics lists every column selectable via the metrics parameter.
var validMetrics = map[string]struct{}{
	"impressions":     {},
	"clicks":          {},
	"conversions":     {},
	"cost":            {},
	"ctr":             {},
	"conversion_rate": {},
	"cpc":             {},
	"cpa":             {},
	"roi":             {},
}

// QueryRequest is one validated analytics query. Build it with
// ParseQueryRequest; the zero value is not valid.
type QueryRequest struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Platforms []models.Platform
	Campaigns []string
	Metrics   []string
	GroupBy   GroupBy
}

// ParseQueryRequest validates raw query parameters and applies
// defaults. Empty platform/campaign lists mean no filter. It returns a
// *ValidationError on any malformed input, before any storage access.
func ParseQueryRequest(userID, startDate, endDate string, platforms, campaigns, metrics []string, groupBy string) (*QueryRequest, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "required"}
	}

	start, err := parseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "endDate", Reason: "before startDate"}
	}

	gb, err := ParseGroupBy(groupBy)
	if err != nil {
		return nil, err
	}

	parsedPlatforms := make([]models.Platform, 0, len(platforms))
	for _, raw := range platforms {
		p, err := models.ParsePlatform(raw)
		if err != nil {
			return nil, &ValidationError{Field: "platforms", Reason: err.Error()}
		}
		parsedPlatforms = append(parsedPlatforms, p)
	}

	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	for _, m := range metrics {
		if _, ok := validMetrics[m]; !ok {
			return nil, &ValidationError{Field: "metrics", Reason: fmt.Sprintf("unsupported metric %q", m)}
		}
	}

	return &QueryRequest{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Platforms: parsedPlatforms,
		Campaigns: campaigns,
		Metrics:   metrics,
		GroupBy:   gb,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: "required"}
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: fmt.Sprintf("not an ISO date: %q", value)}
	}
	return t, nil
}
