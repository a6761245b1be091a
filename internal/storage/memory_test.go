package storage

import (
	"context"
	"testing"
	"time"

	"github.com/radiusdt/ad-insights/internal/models"
)

func metricRow(date string, platform models.Platform, campaignID string, imps int64) models.MetricRow {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.MetricRow{
		Date:           d,
		Platform:       platform,
		CampaignID:     campaignID,
		CampaignName:   "Campaign " + campaignID,
		CampaignStatus: models.CampaignStatusActive,
		Impressions:    imps,
	}
}

func TestInMemoryRowStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRowStore()

	rows := []models.MetricRow{
		metricRow("2024-01-01", models.PlatformFacebook, "c1", 100),
		metricRow("2024-01-15", models.PlatformInstagram, "c2", 200),
		metricRow("2024-02-01", models.PlatformFacebook, "c1", 300),
	}
	if err := store.AddRows("u1", rows); err != nil {
		t.Fatalf("AddRows: %v", err)
	}

	start, end := day("2024-01-01"), day("2024-01-31")

	// No filters: everything in range.
	got, err := store.FetchRows(ctx, "u1", start, end, nil, nil)
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("unfiltered rows = %d, want 2", len(got))
	}

	// Platform filter.
	got, _ = store.FetchRows(ctx, "u1", start, end, []models.Platform{models.PlatformInstagram}, nil)
	if len(got) != 1 || got[0].CampaignID != "c2" {
		t.Errorf("platform filter returned %+v, want only c2", got)
	}

	// Campaign filter.
	got, _ = store.FetchRows(ctx, "u1", start, end, nil, []string{"c1"})
	if len(got) != 1 || got[0].Impressions != 100 {
		t.Errorf("campaign filter returned %+v, want only the January c1 row", got)
	}

	// Range is inclusive at both ends.
	got, _ = store.FetchRows(ctx, "u1", day("2024-01-01"), day("2024-01-01"), nil, nil)
	if len(got) != 1 {
		t.Errorf("inclusive range rows = %d, want 1", len(got))
	}

	// Other users see nothing.
	got, _ = store.FetchRows(ctx, "u2", start, end, nil, nil)
	if len(got) != 0 {
		t.Errorf("foreign user rows = %d, want 0", len(got))
	}
}

func TestInMemoryRowStoreRejectsInvalidRows(t *testing.T) {
	store := NewInMemoryRowStore()

	bad := metricRow("2024-01-01", models.PlatformFacebook, "c1", 100)
	bad.Impressions = -1

	if err := store.AddRows("u1", []models.MetricRow{bad}); err == nil {
		t.Error("AddRows accepted a negative counter")
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheStore()

	if err := cache.Set(ctx, "fp1", "u1", []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := cache.Get(ctx, "fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get = %q, want original payload", got)
	}

	if got, _ := cache.Get(ctx, "missing"); got != nil {
		t.Errorf("Get(missing) = %q, want nil", got)
	}
}

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheStore()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "fp1", "u1", []byte("v"), 15*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Exactly at expiry the entry is already absent.
	cache.now = func() time.Time { return now.Add(15 * time.Minute) }
	if got, _ := cache.Get(ctx, "fp1"); got != nil {
		t.Errorf("Get at expiry = %q, want nil", got)
	}

	// Set again extends the expiry from the new now.
	if err := cache.Set(ctx, "fp1", "u1", []byte("v2"), 15*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cache.now = func() time.Time { return now.Add(29 * time.Minute) }
	if got, _ := cache.Get(ctx, "fp1"); string(got) != "v2" {
		t.Errorf("Get after upsert = %q, want v2", got)
	}
}

func TestInMemoryCachePurgeExpired(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheStore()

	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "live", "u1", []byte("v"), time.Hour)
	cache.Set(ctx, "dead", "u1", []byte("v"), time.Minute)

	cache.now = func() time.Time { return now.Add(30 * time.Minute) }
	purged, err := cache.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if got, _ := cache.Get(ctx, "live"); got == nil {
		t.Error("live entry was purged")
	}
}

func TestInMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheStore()

	cache.Set(ctx, "a", "u1", []byte("v"), time.Hour)
	cache.Set(ctx, "b", "u1", []byte("v"), time.Hour)
	cache.Set(ctx, "c", "u2", []byte("v"), time.Hour)

	deleted, err := cache.ClearUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ClearUser: %v", err)
	}
	if deleted != 2 {
		t.Errorf("ClearUser deleted = %d, want 2", deleted)
	}
	if got, _ := cache.Get(ctx, "c"); got == nil {
		t.Error("ClearUser removed another user's entry")
	}

	deleted, err = cache.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if deleted != 1 {
		t.Errorf("ClearAll deleted = %d, want 1", deleted)
	}
	if got, _ := cache.Get(ctx, "c"); got != nil {
		t.Error("ClearAll left an entry behind")
	}
}
