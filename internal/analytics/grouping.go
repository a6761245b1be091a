package analytics

import (
	"fmt"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
)

// GroupBy selects the time-bucket granularity for aggregation.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// ParseGroupBy validates a groupBy request value. Empty defaults to day.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return GroupBy(s), nil
	default:
		return "", &ValidationError{Field: "groupBy", Reason: fmt.Sprintf("must be day, week or month, got %q", s)}
	}
}

const dateLayout = "2006-01-02"

// BucketDate maps a calendar date onto its bucket start date.
//   - day:   the date itself
//   - week:  the Sunday on or before the date
//   - month: the first day of the date's month
func BucketDate(t time.Time, g GroupBy) string {
	switch g {
	case GroupByWeek:
		return t.AddDate(0, 0, -int(t.Weekday())).Format(dateLayout)
	case GroupByMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format(dateLayout)
	default:
		return t.Format(dateLayout)
	}
}

// groupKey is the aggregation key: one GroupedRecord per distinct key.
func groupKey(bucket string, platform models.Platform, campaignID string) string {
	return bucket + "|" + string(platform) + "|" + campaignID
}
