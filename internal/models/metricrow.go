package models

import (
	"fmt"
	"time"
)

// CampaignStatus mirrors the status the publish pipeline last recorded
// for a campaign. Carried through analytics rows as a descriptive field
// only; the engine never branches on it.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusPaused    CampaignStatus = "PAUSED"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

// MetricRow is one per-day, per-platform, per-campaign observation
// written by the ingestion sync. Immutable once ingested; the analytics
// engine only reads it.
type MetricRow struct {
	Date           time.Time      `json:"date"`
	Platform       Platform       `json:"platform"`
	CampaignID     string         `json:"campaign_id"`
	CampaignName   string         `json:"campaign_name"`
	CampaignStatus CampaignStatus `json:"campaign_status"`
	CampaignBudget float64        `json:"campaign_budget"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Cost        float64 `json:"cost"`
}

// Validate rejects rows the ingestion contract should never produce.
// Called at the storage boundary so the analytics core never sees
// partially-typed data.
func (r *MetricRow) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("metric row: missing date")
	}
	if _, err := ParsePlatform(string(r.Platform)); err != nil {
		return fmt.Errorf("metric row: %w", err)
	}
	if r.CampaignID == "" {
		return fmt.Errorf("metric row: missing campaign id")
	}
	if r.Impressions < 0 || r.Clicks < 0 || r.Conversions < 0 {
		return fmt.Errorf("metric row: negative counter for campaign %s", r.CampaignID)
	}
	if r.Cost < 0 {
		return fmt.Errorf("metric row: negative cost for campaign %s", r.CampaignID)
	}
	return nil
}

// DateKey returns the row's calendar day in ISO form.
func (r *MetricRow) DateKey() string {
	return r.Date.Format("2006-01-02")
}

// CampaignRef is a distinct campaign appearing in a query's row set.
type CampaignRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
