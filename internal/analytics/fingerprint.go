package analytics

import (
	"sort"
	"strings"

	"github.com/radiusdt/ad-insights/internal/models"
)

// Fingerprint builds the deterministic cache key for a validated query.
// Filter lists are sorted before joining so that equivalent queries with
// reordered platforms/campaigns/metrics share one cache entry.
func (q *QueryRequest) Fingerprint() string {
	var b strings.Builder
	b.WriteString(q.UserID)
	b.WriteByte(':')
	b.WriteString(q.StartDate.Format(dateLayout))
	b.WriteByte(':')
	b.WriteString(q.EndDate.Format(dateLayout))
	b.WriteByte(':')
	b.WriteString(joinSorted(platformStrings(q.Platforms)))
	b.WriteByte(':')
	b.WriteString(joinSorted(q.Campaigns))
	b.WriteByte(':')
	b.WriteString(joinSorted(q.Metrics))
	b.WriteByte(':')
	b.WriteString(string(q.GroupBy))
	return b.String()
}

func platformStrings(platforms []models.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
