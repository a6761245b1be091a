package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func groupedRecord(date string, imps, clicks, convs int64, cost, roi float64) GroupedRecord {
	return GroupedRecord{
		Date:        date,
		Impressions: imps,
		Clicks:      clicks,
		Conversions: convs,
		Cost:        cost,
		ROI:         roi,
	}
}

func TestTrendsTooFewRecords(t *testing.T) {
	assert.Equal(t, TrendDeltas{}, Trends(nil))
	assert.Equal(t, TrendDeltas{}, Trends([]GroupedRecord{
		groupedRecord("2024-01-01", 100, 10, 1, 5, 50),
	}))
}

func TestTrendsComparesHalfSums(t *testing.T) {
	records := []GroupedRecord{
		groupedRecord("2024-01-01", 100, 10, 1, 10, 0),
		groupedRecord("2024-01-02", 100, 10, 1, 10, 0),
		groupedRecord("2024-01-03", 200, 30, 3, 15, 0),
		groupedRecord("2024-01-04", 200, 30, 3, 25, 0),
	}

	d := Trends(records)

	// First half sums: 200 imps, 20 clicks, 2 convs, 20 cost.
	// Second half sums: 400 imps, 60 clicks, 6 convs, 40 cost.
	assert.Equal(t, 100.00, d.Impressions)
	assert.Equal(t, 200.00, d.Clicks)
	assert.Equal(t, 200.00, d.Conversions)
	assert.Equal(t, 100.00, d.Cost)
}

func TestTrendsROIComparesPerRecordAverages(t *testing.T) {
	// ROI sums would give (30+70)/(10+20) deltas; the trend instead
	// compares per-record means: first half mean 15, second half mean 50.
	records := []GroupedRecord{
		groupedRecord("2024-01-01", 1, 0, 0, 0, 10),
		groupedRecord("2024-01-02", 1, 0, 0, 0, 20),
		groupedRecord("2024-01-03", 1, 0, 0, 0, 30),
		groupedRecord("2024-01-04", 1, 0, 0, 0, 70),
	}

	d := Trends(records)

	// (50 - 15) / 15 * 100 = 233.33
	assert.Equal(t, 233.33, d.ROI)
}

func TestTrendsOddLengthSplitsAtFloorMidpoint(t *testing.T) {
	records := []GroupedRecord{
		groupedRecord("2024-01-01", 100, 0, 0, 0, 0),
		groupedRecord("2024-01-02", 100, 0, 0, 0, 0),
		groupedRecord("2024-01-03", 100, 0, 0, 0, 0),
	}

	d := Trends(records)

	// midpoint = 1: first half 100, second half 200.
	assert.Equal(t, 100.00, d.Impressions)
}

func TestTrendsZeroFirstHalf(t *testing.T) {
	records := []GroupedRecord{
		groupedRecord("2024-01-01", 0, 0, 0, 0, 0),
		groupedRecord("2024-01-02", 500, 0, 0, 0, 0),
	}

	d := Trends(records)
	assert.Equal(t, 100.00, d.Impressions)
	assert.Equal(t, 0.00, d.Clicks)
}
