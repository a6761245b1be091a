package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/radiusdt/ad-insights/internal/models"
)

// ClickHouseRowStore reads raw analytics rows from a denormalized
// ClickHouse table. High-volume installs point the ingestion sync here
// instead of at Postgres; campaign descriptive fields are carried on
// every row so no join is needed.
type ClickHouseRowStore struct {
	conn driver.Conn
}

// NewClickHouseRowStore creates a new ClickHouse-backed row store.
func NewClickHouseRowStore(conn driver.Conn) *ClickHouseRowStore {
	return &ClickHouseRowStore{conn: conn}
}

// FetchRows returns the user's rows in the inclusive date range. Empty
// platform or campaign filters match everything.
func (s *ClickHouseRowStore) FetchRows(ctx context.Context, userID string, start, end time.Time, platforms []models.Platform, campaigns []string) ([]models.MetricRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT date, platform, campaign_id, campaign_name, campaign_status, campaign_budget,
		       impressions, clicks, conversions, cost
		FROM daily_metrics
		WHERE user_id = ? AND date >= ? AND date <= ?`)
	args := []any{userID, start, end}

	if len(platforms) > 0 {
		platformFilter := make([]string, len(platforms))
		for i, p := range platforms {
			platformFilter[i] = string(p)
		}
		sb.WriteString(" AND platform IN (?)")
		args = append(args, platformFilter)
	}
	if len(campaigns) > 0 {
		sb.WriteString(" AND campaign_id IN (?)")
		args = append(args, campaigns)
	}
	sb.WriteString(" ORDER BY date, platform, campaign_id")

	rows, err := s.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric rows: %w", err)
	}
	defer rows.Close()

	out := make([]models.MetricRow, 0)
	for rows.Next() {
		var row models.MetricRow
		var platform, status string
		var impressions, clicks, conversions uint64

		if err := rows.Scan(&row.Date, &platform, &row.CampaignID, &row.CampaignName, &status, &row.CampaignBudget,
			&impressions, &clicks, &conversions, &row.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}

		row.Platform = models.Platform(platform)
		row.CampaignStatus = models.CampaignStatus(status)
		row.Impressions = int64(impressions)
		row.Clicks = int64(clicks)
		row.Conversions = int64(conversions)

		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("invalid metric row from store: %w", err)
		}

		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metric rows: %w", err)
	}

	return out, nil
}
