package models

import (
	"testing"
	"time"
)

func validRow() MetricRow {
	return MetricRow{
		Date:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Platform:       PlatformFacebook,
		CampaignID:     "c1",
		CampaignName:   "Winter Sale",
		CampaignStatus: CampaignStatusActive,
		Impressions:    100,
		Clicks:         10,
		Conversions:    1,
		Cost:           5,
	}
}

func TestMetricRowValidate(t *testing.T) {
	row := validRow()
	if err := row.Validate(); err != nil {
		t.Fatalf("valid row rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*MetricRow)
	}{
		{"zero date", func(r *MetricRow) { r.Date = time.Time{} }},
		{"unknown platform", func(r *MetricRow) { r.Platform = "TIKTOK" }},
		{"empty platform", func(r *MetricRow) { r.Platform = "" }},
		{"missing campaign id", func(r *MetricRow) { r.CampaignID = "" }},
		{"negative impressions", func(r *MetricRow) { r.Impressions = -1 }},
		{"negative clicks", func(r *MetricRow) { r.Clicks = -1 }},
		{"negative conversions", func(r *MetricRow) { r.Conversions = -1 }},
		{"negative cost", func(r *MetricRow) { r.Cost = -0.01 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)
			if err := row.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestMetricRowValidateAcceptsZeroCounters(t *testing.T) {
	row := validRow()
	row.Impressions, row.Clicks, row.Conversions, row.Cost = 0, 0, 0, 0
	if err := row.Validate(); err != nil {
		t.Errorf("zero counters rejected: %v", err)
	}
}

func TestDateKey(t *testing.T) {
	row := validRow()
	if got := row.DateKey(); got != "2024-01-01" {
		t.Errorf("DateKey = %q, want 2024-01-01", got)
	}
}

func TestParsePlatform(t *testing.T) {
	for _, p := range AllPlatforms {
		got, err := ParsePlatform(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePlatform(%q) = %v, %v", p, got, err)
		}
	}
	if _, err := ParsePlatform("TIKTOK"); err == nil {
		t.Error("ParsePlatform accepted an unknown platform")
	}
}
