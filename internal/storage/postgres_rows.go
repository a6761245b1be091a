package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/radiusdt/ad-insights/internal/models"
)

// PostgresRowStore reads raw analytics rows from the daily_metrics
// table the ingestion sync writes into. Ownership is enforced by
// joining through campaigns.user_id.
type PostgresRowStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRowStore creates a new PostgreSQL-backed row store.
func NewPostgresRowStore(pool *pgxpool.Pool) *PostgresRowStore {
	return &PostgresRowStore{pool: pool}
}

// FetchRows returns the user's rows in the inclusive date range. Empty
// platform or campaign filters match everything.
func (s *PostgresRowStore) FetchRows(ctx context.Context, userID string, start, end time.Time, platforms []models.Platform, campaigns []string) ([]models.MetricRow, error) {
	platformFilter := make([]string, len(platforms))
	for i, p := range platforms {
		platformFilter[i] = string(p)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.date, m.platform, m.campaign_id, c.name, c.status, c.budget,
		       m.impressions, m.clicks, m.conversions, m.cost
		FROM daily_metrics m
		JOIN campaigns c ON c.id = m.campaign_id
		WHERE c.user_id = $1
		  AND m.date >= $2 AND m.date <= $3
		  AND (cardinality($4::text[]) = 0 OR m.platform = ANY($4))
		  AND (cardinality($5::text[]) = 0 OR m.campaign_id = ANY($5))
		ORDER BY m.date, m.platform, m.campaign_id
	`, userID, start, end, platformFilter, campaigns)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric rows: %w", err)
	}
	defer rows.Close()

	out := make([]models.MetricRow, 0)
	for rows.Next() {
		var row models.MetricRow
		var platform, status string

		if err := rows.Scan(&row.Date, &platform, &row.CampaignID, &row.CampaignName, &status, &row.CampaignBudget,
			&row.Impressions, &row.Clicks, &row.Conversions, &row.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}

		row.Platform = models.Platform(platform)
		row.CampaignStatus = models.CampaignStatus(status)

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
