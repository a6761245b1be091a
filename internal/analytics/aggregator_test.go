package analytics

import (
	"testing"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func row(date string, platform models.Platform, campaignID string, imps, clicks, convs int64, cost float64) models.MetricRow {
	return models.MetricRow{
		Date:           day(date),
		Platform:       platform,
		CampaignID:     campaignID,
		CampaignName:   "Campaign " + campaignID,
		CampaignStatus: models.CampaignStatusActive,
		CampaignBudget: 500,
		Impressions:    imps,
		Clicks:         clicks,
		Conversions:    convs,
		Cost:           cost,
	}
}

func TestAggregateSingleRowDerivedMetrics(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-01", models.PlatformFacebook, "c1", 1000, 50, 5, 25.00),
	}

	got := Aggregate(rows, GroupByDay)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, "2024-01-01", rec.Date)
	assert.Equal(t, models.PlatformFacebook, rec.Platform)
	assert.Equal(t, "c1", rec.CampaignID)
	assert.Equal(t, 5.00, rec.CTR)
	assert.Equal(t, 10.00, rec.ConversionRate)
	assert.Equal(t, 0.50, rec.CPC)
	assert.Equal(t, 5.00, rec.CPA)
	assert.Equal(t, 1900.00, rec.ROI)
}

func TestAggregateSumsSameKey(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-01", models.PlatformFacebook, "c1", 1000, 10, 1, 5),
		row("2024-01-01", models.PlatformFacebook, "c1", 2000, 20, 2, 10),
	}

	got := Aggregate(rows, GroupByDay)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3000), got[0].Impressions)
	assert.Equal(t, int64(30), got[0].Clicks)
	assert.Equal(t, int64(3), got[0].Conversions)
	assert.Equal(t, 15.00, got[0].Cost)
}

func TestAggregateKeepsFirstSeenDescriptiveFields(t *testing.T) {
	first := row("2024-01-01", models.PlatformFacebook, "c1", 10, 0, 0, 0)
	second := row("2024-01-01", models.PlatformFacebook, "c1", 20, 0, 0, 0)
	second.CampaignName = "Renamed"
	second.CampaignStatus = models.CampaignStatusPaused

	got := Aggregate([]models.MetricRow{first, second}, GroupByDay)
	require.Len(t, got, 1)
	assert.Equal(t, "Campaign c1", got[0].CampaignName)
	assert.Equal(t, models.CampaignStatusActive, got[0].CampaignStatus)
}

func TestAggregateDistinctKeys(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-01", models.PlatformFacebook, "c1", 100, 1, 0, 1),
		row("2024-01-01", models.PlatformInstagram, "c1", 100, 1, 0, 1),
		row("2024-01-02", models.PlatformFacebook, "c1", 100, 1, 0, 1),
		row("2024-01-01", models.PlatformFacebook, "c2", 100, 1, 0, 1),
	}

	got := Aggregate(rows, GroupByDay)
	assert.Len(t, got, 4)
}

func TestAggregatePreservesTotals(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-01", models.PlatformFacebook, "c1", 100, 5, 1, 2),
		row("2024-01-03", models.PlatformInstagram, "c2", 250, 9, 2, 7),
		row("2024-01-08", models.PlatformFacebook, "c1", 425, 17, 3, 11),
		row("2024-01-08", models.PlatformFacebook, "c1", 75, 2, 0, 1),
	}

	for _, g := range []GroupBy{GroupByDay, GroupByWeek, GroupByMonth} {
		grouped := Aggregate(rows, g)

		var rawImps, groupedImps int64
		for _, r := range rows {
			rawImps += r.Impressions
		}
		for _, rec := range grouped {
			groupedImps += rec.Impressions
		}
		assert.Equal(t, rawImps, groupedImps, "groupBy=%s", g)
	}
}

func TestAggregateWeekBucketsSundayAligned(t *testing.T) {
	// 2024-01-03 is a Wednesday; its week starts Sunday 2023-12-31.
	rows := []models.MetricRow{
		row("2024-01-03", models.PlatformFacebook, "c1", 10, 0, 0, 0),
		row("2023-12-31", models.PlatformFacebook, "c1", 10, 0, 0, 0),
		row("2024-01-07", models.PlatformFacebook, "c1", 10, 0, 0, 0), // next Sunday
	}

	got := Aggregate(rows, GroupByWeek)
	require.Len(t, got, 2)
	assert.Equal(t, "2023-12-31", got[0].Date)
	assert.Equal(t, int64(20), got[0].Impressions)
	assert.Equal(t, "2024-01-07", got[1].Date)
}

func TestAggregateMonthBuckets(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-05", models.PlatformFacebook, "c1", 10, 0, 0, 0),
		row("2024-01-28", models.PlatformFacebook, "c1", 10, 0, 0, 0),
		row("2024-02-01", models.PlatformFacebook, "c1", 10, 0, 0, 0),
	}

	got := Aggregate(rows, GroupByMonth)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, int64(20), got[0].Impressions)
	assert.Equal(t, "2024-02-01", got[1].Date)
}

func TestAggregateEmptyInput(t *testing.T) {
	got := Aggregate(nil, GroupByDay)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateIdempotent(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-02", models.PlatformInstagram, "c2", 300, 30, 3, 12.5),
		row("2024-01-01", models.PlatformFacebook, "c1", 1000, 50, 5, 25),
	}

	first := Aggregate(rows, GroupByDay)
	second := Aggregate(rows, GroupByDay)
	assert.Equal(t, first, second)
}

func TestAggregateSortedByDateThenPlatformThenCampaign(t *testing.T) {
	rows := []models.MetricRow{
		row("2024-01-02", models.PlatformInstagram, "c2", 1, 0, 0, 0),
		row("2024-01-01", models.PlatformInstagram, "c1", 1, 0, 0, 0),
		row("2024-01-01", models.PlatformFacebook, "c2", 1, 0, 0, 0),
		row("2024-01-01", models.PlatformFacebook, "c1", 1, 0, 0, 0),
	}

	got := Aggregate(rows, GroupByDay)
	require.Len(t, got, 4)
	assert.Equal(t, "c1", got[0].CampaignID)
	assert.Equal(t, models.PlatformFacebook, got[0].Platform)
	assert.Equal(t, "c2", got[1].CampaignID)
	assert.Equal(t, models.PlatformInstagram, got[2].Platform)
	assert.Equal(t, "2024-01-02", got[3].Date)
}
