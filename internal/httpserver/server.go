package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/radiusdt/ad-insights/internal/analytics"
	"github.com/radiusdt/ad-insights/internal/config"
	"github.com/radiusdt/ad-insights/internal/database"
	"github.com/radiusdt/ad-insights/internal/export"
	"github.com/radiusdt/ad-insights/internal/metrics"
	"github.com/radiusdt/ad-insights/internal/middleware"
	"github.com/radiusdt/ad-insights/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds all external dependencies for the server. Rows
// and Cache are required; main selects the backends and owns their
// lifecycle.
type Dependencies struct {
	Rows    storage.RowStore
	Cache   storage.CacheStore
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// BuildStores selects storage backends with graceful degradation:
// ClickHouse serves rows when connected, otherwise Postgres, otherwise
// in-memory; the cache prefers Redis, then Postgres, then in-memory.
func BuildStores(db *database.PostgresDB, redis *database.RedisDB, ch *database.ClickHouseDB) (storage.RowStore, storage.CacheStore) {
	var rowStore storage.RowStore
	switch {
	case ch != nil:
		rowStore = storage.NewClickHouseRowStore(ch.Conn)
	case db != nil:
		rowStore = storage.NewPostgresRowStore(db.Pool)
	default:
		rowStore = storage.NewInMemoryRowStore()
	}

	var cacheStore storage.CacheStore
	switch {
	case redis != nil:
		cacheStore = storage.NewRedisCacheStore(redis.Client)
	case db != nil:
		cacheStore = storage.NewPostgresCacheStore(db.Pool)
	default:
		cacheStore = storage.NewInMemoryCacheStore()
	}

	return rowStore, cacheStore
}

// Server wraps HTTP handlers around the analytics engine.
type Server struct {
	engine  *analytics.Engine
	rows    storage.RowStore
	cache   storage.CacheStore
	logger  *zap.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	engine := analytics.NewEngine(deps.Rows, deps.Cache, deps.Config.Cache.TTL, deps.Logger, deps.Metrics)

	s := &Server{
		engine:  engine,
		rows:    deps.Rows,
		cache:   deps.Cache,
		logger:  deps.Logger,
		config:  deps.Config,
		metrics: deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Analytics
	mux.HandleFunc("/analytics", s.handleAnalytics)
	mux.HandleFunc("/analytics/export.csv", s.handleExportCSV)

	// Cache administration
	mux.HandleFunc("/cache", s.handleCacheClearAll)
	mux.HandleFunc("/cache/purge", s.handleCachePurge)
	mux.HandleFunc("/cache/users/", s.handleCacheClearUser)

	logging := middleware.NewLoggingMiddleware(deps.Logger)
	recovery := middleware.NewRecoveryMiddleware(deps.Logger)
	return recovery.Handler(logging.Handler(mux))
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Analytics Query ----

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	req, err := s.parseQuery(r)
	if err != nil {
		s.recordQuery(r, "validation_error", start)
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.engine.Query(r.Context(), req)
	if err != nil {
		s.recordQuery(r, "storage_error", start)
		s.logger.Error("analytics query failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		s.errorResponse(w, "failed to run analytics query", http.StatusInternalServerError)
		return
	}

	s.recordQuery(r, "ok", start)
	s.jsonResponse(w, report)
}

// ---- CSV Export ----

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := s.parseQuery(r)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExport("validation_error")
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := s.rows.FetchRows(r.Context(), req.UserID, req.StartDate, req.EndDate, req.Platforms, req.Campaigns)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExport("storage_error")
		}
		s.logger.Error("export fetch failed", zap.String("user_id", req.UserID), zap.Error(err))
		s.errorResponse(w, "failed to fetch rows", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("analytics_%s_%s.csv",
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteRowsCSV(w, rows, req.Metrics); err != nil {
		// Headers are already sent; nothing left to do but log.
		s.logger.Error("csv export failed", zap.String("user_id", req.UserID), zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordExport("ok")
	}
}

// ---- Cache Administration ----

func (s *Server) handleCacheClearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deleted, err := s.cache.ClearAll(r.Context())
	if err != nil {
		s.logger.Error("cache clear failed", zap.Error(err))
		s.errorResponse(w, "failed to clear cache", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, map[string]int64{"deleted": deleted})
}

func (s *Server) handleCacheClearUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/cache/users/")
	if userID == "" || strings.Contains(userID, "/") {
		s.errorResponse(w, "user id required", http.StatusBadRequest)
		return
	}

	deleted, err := s.cache.ClearUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("user cache clear failed", zap.String("user_id", userID), zap.Error(err))
		s.errorResponse(w, "failed to clear user cache", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, map[string]int64{"deleted": deleted})
}

func (s *Server) handleCachePurge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	purged, err := s.cache.PurgeExpired(r.Context())
	if err != nil {
		s.logger.Error("cache purge failed", zap.Error(err))
		s.errorResponse(w, "failed to purge cache", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.CachePurged.Add(float64(purged))
	}
	s.jsonResponse(w, map[string]int64{"purged": purged})
}

// ---- Helper Methods ----

// parseQuery builds a validated analytics request from URL parameters.
// The user ID comes from the X-User-ID header the host app's auth layer
// injects, with a userId query parameter fallback for tooling.
func (s *Server) parseQuery(r *http.Request) (*analytics.QueryRequest, error) {
	q := r.URL.Query()

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = q.Get("userId")
	}

	return analytics.ParseQueryRequest(
		userID,
		q.Get("startDate"),
		q.Get("endDate"),
		splitList(q.Get("platforms")),
		splitList(q.Get("campaigns")),
		splitList(q.Get("metrics")),
		q.Get("groupBy"),
	)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) recordQuery(r *http.Request, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	groupBy := r.URL.Query().Get("groupBy")
	if groupBy == "" {
		groupBy = string(analytics.GroupByDay)
	}
	s.metrics.RecordQuery(groupBy, status, time.Since(start))
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
