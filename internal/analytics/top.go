package analytics

import (
	"sort"

	"github.com/radiusdt/ad-insights/internal/models"
)

const (
	topCampaignLimit = 5
	topPlatformLimit = 3
)

// CampaignTotals is one campaign's counters re-aggregated across the
// whole filtered row set, with ROI recomputed from the totals.
type CampaignTotals struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	Conversions  int64   `json:"conversions"`
	Cost         float64 `json:"cost"`
	ROI          float64 `json:"roi"`
}

// PlatformTotals is one platform's counters across the filtered row set.
type PlatformTotals struct {
	Platform    models.Platform `json:"platform"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Cost        float64         `json:"cost"`
	ROI         float64         `json:"roi"`
}

// TopPerformers holds the ranked leader boards for one query.
type TopPerformers struct {
	CampaignsByImpressions []CampaignTotals `json:"campaigns_by_impressions"`
	PlatformsByClicks      []PlatformTotals `json:"platforms_by_clicks"`
	CampaignsByROI         []CampaignTotals `json:"campaigns_by_roi"`
	CampaignsByConversions []CampaignTotals `json:"campaigns_by_conversions"`
}

// RankTopPerformers re-aggregates the raw row set by campaign and by
// platform and produces four capped, descending rankings. Ties keep the
// aggregation's first-seen order (stable sort, no explicit tie-break).
func RankTopPerformers(rows []models.MetricRow) TopPerformers {
	campaigns := aggregateByCampaign(rows)
	platforms := aggregateByPlatform(rows)

	return TopPerformers{
		CampaignsByImpressions: topCampaigns(campaigns, func(a, b *CampaignTotals) bool {
			return a.Impressions > b.Impressions
		}),
		PlatformsByClicks:      topPlatforms(platforms),
		CampaignsByROI:         topCampaigns(campaigns, func(a, b *CampaignTotals) bool { return a.ROI > b.ROI }),
		CampaignsByConversions: topCampaigns(campaigns, func(a, b *CampaignTotals) bool { return a.Conversions > b.Conversions }),
	}
}

func aggregateByCampaign(rows []models.MetricRow) []CampaignTotals {
	byID := make(map[string]*CampaignTotals)
	order := make([]string, 0)

	for i := range rows {
		row := &rows[i]
		agg, ok := byID[row.CampaignID]
		if !ok {
			agg = &CampaignTotals{CampaignID: row.CampaignID, CampaignName: row.CampaignName}
			byID[row.CampaignID] = agg
			order = append(order, row.CampaignID)
		}
		agg.Impressions += row.Impressions
		agg.Clicks += row.Clicks
		agg.Conversions += row.Conversions
		agg.Cost += row.Cost
	}

	out := make([]CampaignTotals, 0, len(order))
	for _, id := range order {
		agg := byID[id]
		agg.ROI = Round2(ROI(agg.Cost, agg.Conversions))
		agg.Cost = Round2(agg.Cost)
		out = append(out, *agg)
	}
	return out
}

func aggregateByPlatform(rows []models.MetricRow) []PlatformTotals {
	byPlatform := make(map[models.Platform]*PlatformTotals)
	order := make([]models.Platform, 0)

	for i := range rows {
		row := &rows[i]
		agg, ok := byPlatform[row.Platform]
		if !ok {
			agg = &PlatformTotals{Platform: row.Platform}
			byPlatform[row.Platform] = agg
			order = append(order, row.Platform)
		}
		agg.Impressions += row.Impressions
		agg.Clicks += row.Clicks
		agg.Conversions += row.Conversions
		agg.Cost += row.Cost
	}

	out := make([]PlatformTotals, 0, len(order))
	for _, p := range order {
		agg := byPlatform[p]
		agg.ROI = Round2(ROI(agg.Cost, agg.Conversions))
		agg.Cost = Round2(agg.Cost)
		out = append(out, *agg)
	}
	return out
}

func topCampaigns(campaigns []CampaignTotals, less func(a, b *CampaignTotals) bool) []CampaignTotals {
	ranked := make([]CampaignTotals, len(campaigns))
	copy(ranked, campaigns)
	sort.SliceStable(ranked, func(i, j int) bool { return less(&ranked[i], &ranked[j]) })
	if len(ranked) > topCampaignLimit {
		ranked = ranked[:topCampaignLimit]
	}
	return ranked
}

func topPlatforms(platforms []PlatformTotals) []PlatformTotals {
	ranked := make([]PlatformTotals, len(platforms))
	copy(ranked, platforms)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Clicks > ranked[j].Clicks })
	if len(ranked) > topPlatformLimit {
		ranked = ranked[:topPlatformLimit]
	}
	return ranked
}
