package analytics

import (
	"github.com/radiusdt/ad-insights/internal/models"
)

// SummaryStats holds dataset-wide totals and averages for one query.
// The averaged metrics are computed from the totals, not by averaging
// per-row metrics, so low-volume rows do not bias the result.
type SummaryStats struct {
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalConversions int64   `json:"total_conversions"`
	TotalCost        float64 `json:"total_cost"`

	AvgCTR            float64 `json:"avg_ctr"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
	AvgCPC            float64 `json:"avg_cpc"`
	AvgCPA            float64 `json:"avg_cpa"`
	AvgROI            float64 `json:"avg_roi"`

	TotalCampaigns int `json:"total_campaigns"`
	TotalPlatforms int `json:"total_platforms"`
	DateRange      int `json:"date_range"`
}

// Summarize computes SummaryStats over the raw filtered row set. An
// empty input yields an all-zero summary, never an error.
func Summarize(rows []models.MetricRow) SummaryStats {
	var s SummaryStats

	campaigns := make(map[string]struct{})
	platforms := make(map[models.Platform]struct{})
	dates := make(map[string]struct{})

	for i := range rows {
		row := &rows[i]
		s.TotalImpressions += row.Impressions
		s.TotalClicks += row.Clicks
		s.TotalConversions += row.Conversions
		s.TotalCost += row.Cost

		campaigns[row.CampaignID] = struct{}{}
		platforms[row.Platform] = struct{}{}
		dates[row.DateKey()] = struct{}{}
	}

	s.AvgCTR = Round2(CTR(s.TotalImpressions, s.TotalClicks))
	s.AvgConversionRate = Round2(ConversionRate(s.TotalClicks, s.TotalConversions))
	s.AvgCPC = Round2(CPC(s.TotalClicks, s.TotalCost))
	s.AvgCPA = Round2(CPA(s.TotalConversions, s.TotalCost))
	s.AvgROI = Round2(ROI(s.TotalCost, s.TotalConversions))
	s.TotalCost = Round2(s.TotalCost)

	s.TotalCampaigns = len(campaigns)
	s.TotalPlatforms = len(platforms)
	s.DateRange = len(dates)

	return s
}
