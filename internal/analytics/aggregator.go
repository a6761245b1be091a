package analytics

import (
	"sort"

	"github.com/radiusdt/ad-insights/internal/models"
)

// GroupedRecord is one aggregated row per (bucket date, platform,
// campaign). Counters are sums over every raw row mapping to the key;
// the derived metrics are computed once from those sums. Derived
// metrics are never stored independently of the counters they came
// from.
type GroupedRecord struct {
	Date           string                `json:"date"`
	Platform       models.Platform       `json:"platform"`
	CampaignID     string                `json:"campaign_id"`
	CampaignName   string                `json:"campaign_name"`
	CampaignStatus models.CampaignStatus `json:"campaign_status"`
	CampaignBudget float64               `json:"campaign_budget"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Cost        float64 `json:"cost"`

	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	CPC            float64 `json:"cpc"`
	CPA            float64 `json:"cpa"`
	ROI            float64 `json:"roi"`
}

// Aggregate folds raw rows into one GroupedRecord per distinct
// (bucket, platform, campaign) key, then computes the derived metrics
// in a single finalization pass. Descriptive campaign fields come from
// the first row seen for each key. The result is sorted ascending by
// bucket date, then platform, then campaign ID.
func Aggregate(rows []models.MetricRow, g GroupBy) []GroupedRecord {
	grouped := make(map[string]*GroupedRecord)
	order := make([]string, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		bucket := BucketDate(row.Date, g)
		key := groupKey(bucket, row.Platform, row.CampaignID)

		rec, ok := grouped[key]
		if !ok {
			rec = &GroupedRecord{
				Date:           bucket,
				Platform:       row.Platform,
				CampaignID:     row.CampaignID,
				CampaignName:   row.CampaignName,
				CampaignStatus: row.CampaignStatus,
				CampaignBudget: row.CampaignBudget,
			}
			grouped[key] = rec
			order = append(order, key)
		}

		rec.Impressions += row.Impressions
		rec.Clicks += row.Clicks
		rec.Conversions += row.Conversions
		rec.Cost += row.Cost
	}

	out := make([]GroupedRecord, 0, len(grouped))
	for _, key := range order {
		rec := grouped[key]
		rec.CTR = Round2(CTR(rec.Impressions, rec.Clicks))
		rec.ConversionRate = Round2(ConversionRate(rec.Clicks, rec.Conversions))
		rec.CPC = Round2(CPC(rec.Clicks, rec.Cost))
		rec.CPA = Round2(CPA(rec.Conversions, rec.Cost))
		rec.ROI = Round2(ROI(rec.Cost, rec.Conversions))
		rec.Cost = Round2(rec.Cost)
		out = append(out, *rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].CampaignID < out[j].CampaignID
	})

	return out
}
