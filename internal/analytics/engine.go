package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/radiusdt/ad-insights/internal/metrics"
	"github.com/radiusdt/ad-insights/internal/models"
	"github.com/radiusdt/ad-insights/internal/storage"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long an assembled report stays valid in the
// result cache.
const DefaultCacheTTL = 15 * time.Minute

// DateRange echoes the query's inclusive date window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Report is the assembled response for one analytics query. It is
// acyclic and JSON-serializable by construction, which is what makes
// caching the whole object safe.
type Report struct {
	Analytics     []GroupedRecord      `json:"analytics"`
	Summary       SummaryStats         `json:"summary"`
	Trends        TrendDeltas          `json:"trends"`
	TopPerformers TopPerformers        `json:"top_performers"`
	Campaigns     []models.CampaignRef `json:"campaigns"`
	Platforms     []models.Platform    `json:"platforms"`
	DateRange     DateRange            `json:"date_range"`
	GroupBy       GroupBy              `json:"group_by"`
	Metrics       []string             `json:"metrics"`
	TotalRecords  int                  `json:"total_records"`
}

// Engine runs analytics queries: result-cache lookup, raw-row fetch,
// aggregation and derived metrics, and cache write-back. It holds no
// mutable state of its own; one instance serves concurrent requests.
type Engine struct {
	rows    storage.RowStore
	cache   storage.CacheStore
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an analytics engine. ttl <= 0 selects
// DefaultCacheTTL.
func NewEngine(rows storage.RowStore, cache storage.CacheStore, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Engine{
		rows:    rows,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// Query executes one analytics query. Cache reads and the raw-row fetch
// fail loud; a failed cache write is logged and swallowed because the
// cache is an optimization, not a source of truth. Zero matching rows
// is a well-formed all-zero report, not an error.
func (e *Engine) Query(ctx context.Context, req *QueryRequest) (*Report, error) {
	fingerprint := req.Fingerprint()

	payload, err := e.cache.Get(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("cache read: %w", err)
	}
	if payload != nil {
		var report Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("cache payload decode: %w", err)
		}
		if e.metrics != nil {
			e.metrics.CacheHits.Inc()
		}
		return &report, nil
	}
	if e.metrics != nil {
		e.metrics.CacheMisses.Inc()
	}

	rows, err := e.rows.FetchRows(ctx, req.UserID, req.StartDate, req.EndDate, req.Platforms, req.Campaigns)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	if e.metrics != nil {
		e.metrics.RowsFetched.Observe(float64(len(rows)))
	}

	grouped := Aggregate(rows, req.GroupBy)

	report := &Report{
		Analytics:     grouped,
		Summary:       Summarize(rows),
		Trends:        Trends(grouped),
		TopPerformers: RankTopPerformers(rows),
		Campaigns:     distinctCampaigns(rows),
		Platforms:     distinctPlatforms(rows),
		DateRange: DateRange{
			Start: req.StartDate.Format(dateLayout),
			End:   req.EndDate.Format(dateLayout),
		},
		GroupBy:      req.GroupBy,
		Metrics:      req.Metrics,
		TotalRecords: len(grouped),
	}

	e.writeCache(ctx, fingerprint, req.UserID, report)

	return report, nil
}

func (e *Engine) writeCache(ctx context.Context, fingerprint, userID string, report *Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		e.logger.Warn("cache payload encode failed", zap.String("fingerprint", fingerprint), zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, fingerprint, userID, payload, e.ttl); err != nil {
		if e.metrics != nil {
			e.metrics.CacheWriteFailures.Inc()
		}
		e.logger.Warn("cache write failed", zap.String("fingerprint", fingerprint), zap.Error(err))
	}
}

func distinctCampaigns(rows []models.MetricRow) []models.CampaignRef {
	seen := make(map[string]struct{})
	out := make([]models.CampaignRef, 0)
	for i := range rows {
		if _, ok := seen[rows[i].CampaignID]; ok {
			continue
		}
		seen[rows[i].CampaignID] = struct{}{}
		out = append(out, models.CampaignRef{ID: rows[i].CampaignID, Name: rows[i].CampaignName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func distinctPlatforms(rows []models.MetricRow) []models.Platform {
	seen := make(map[models.Platform]struct{})
	out := make([]models.Platform, 0)
	for i := range rows {
		if _, ok := seen[rows[i].Platform]; ok {
			continue
		}
		seen[rows[i].Platform] = struct{}{}
		out = append(out, rows[i].Platform)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
