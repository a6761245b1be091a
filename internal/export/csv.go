// Package export renders query results for download. It consumes the
// same row and grouped-record shapes the analytics engine produces and
// adds no computation of its own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/radiusdt/ad-insights/internal/analytics"
	"github.com/radiusdt/ad-insights/internal/models"
)

// baseColumns always lead a CSV export; metric columns follow in the
// order the query selected them.
var baseColumns = []string{"date", "platform", "campaign_id", "campaign_name"}

// WriteRowsCSV streams one CSV line per raw metric row, with metric
// columns restricted to the query's selection.
func WriteRowsCSV(w io.Writer, rows []models.MetricRow, metrics []string) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, baseColumns...), metrics...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, 0, len(header))
	for i := range rows {
		row := &rows[i]
		record = record[:0]
		record = append(record,
			row.DateKey(),
			string(row.Platform),
			row.CampaignID,
			row.CampaignName,
		)
		for _, metric := range metrics {
			record = append(record, metricColumn(row, metric))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func metricColumn(row *models.MetricRow, metric string) string {
	switch metric {
	case "impressions":
		return strconv.FormatInt(row.Impressions, 10)
	case "clicks":
		return strconv.FormatInt(row.Clicks, 10)
	case "conversions":
		return strconv.FormatInt(row.Conversions, 10)
	case "cost":
		return strconv.FormatFloat(row.Cost, 'f', 2, 64)
	case "ctr":
		return formatMetric(analytics.CTR(row.Impressions, row.Clicks))
	case "conversion_rate":
		return formatMetric(analytics.ConversionRate(row.Clicks, row.Conversions))
	case "cpc":
		return formatMetric(analytics.CPC(row.Clicks, row.Cost))
	case "cpa":
		return formatMetric(analytics.CPA(row.Conversions, row.Cost))
	case "roi":
		return formatMetric(analytics.ROI(row.Cost, row.Conversions))
	default:
		return ""
	}
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(analytics.Round2(v), 'f', 2, 64)
}
