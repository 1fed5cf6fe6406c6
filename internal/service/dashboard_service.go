package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cmrpai/internal/cache"
	"cmrpai/internal/model"
	"cmrpai/internal/repository"
)

const (
	// SeriesLength is the number of buckets in the dashboard series.
	SeriesLength = 12
	// BucketDays is the width of one series bucket. Buckets approximate months.
	BucketDays = 30
	// TrailingYearDays is the window of the yearly KPI.
	TrailingYearDays = 365

	dashboardCacheTTL = time.Minute
	seriesLabelLayout = "Jan 2006"
)

// Series is a chronological (oldest first) count series with parallel labels.
type Series struct {
	Labels []string `json:"labels"`
	Counts []int64  `json:"counts"`
}

// DashboardStats holds the dashboard KPIs.
type DashboardStats struct {
	ActiveMinors        int64     `json:"nna_activos"`
	AttentionsThisMonth int64     `json:"atenciones_mes"`
	AttentionsLastYear  int64     `json:"atenciones_anio"`
	Series              Series    `json:"serie"`
	Date                time.Time `json:"fecha"`
}

// SeriesBucket is one [Start, End) window of the series.
type SeriesBucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// DashboardService computes dashboard aggregates.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	nnaRepo       repository.NNARepository
	attentionRepo repository.AttentionRepository
	cache         *cache.Client
	now           func() time.Time
}

// NewDashboardService creates a dashboard service. now may be nil to use the wall clock.
func NewDashboardService(nnaRepo repository.NNARepository, attentionRepo repository.AttentionRepository, cache *cache.Client, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{
		nnaRepo:       nnaRepo,
		attentionRepo: attentionRepo,
		cache:         cache,
		now:           now,
	}
}

func dashboardCacheKey(today time.Time) string {
	return fmt.Sprintf("dashboard:stats:%s", today.Format("2006-01-02"))
}

// MonthStart returns the first day of today's month.
func MonthStart(today time.Time) time.Time {
	today = model.Day(today)
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SeriesBuckets walks back from the first day of today's month in fixed BucketDays
// windows and returns them oldest first. Buckets drift from calendar months.
func SeriesBuckets(today time.Time) []SeriesBucket {
	start := MonthStart(today)
	buckets := make([]SeriesBucket, SeriesLength)
	for i := 0; i < SeriesLength; i++ {
		from := start.AddDate(0, 0, -BucketDays*i)
		buckets[SeriesLength-1-i] = SeriesBucket{
			Start: from,
			End:   from.AddDate(0, 0, BucketDays),
			Label: from.Format(seriesLabelLayout),
		}
	}
	return buckets
}

// Stats returns the KPIs for the current date, cached briefly.
func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	today := model.Day(s.now())
	key := dashboardCacheKey(today)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx, today)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, key, payload, dashboardCacheTTL)
	}
	return stats, nil
}

func (s *dashboardService) compute(ctx context.Context, today time.Time) (*DashboardStats, error) {
	active, err := s.nnaRepo.CountByStatus(ctx, model.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active nna: %w", err)
	}

	month, err := s.attentionRepo.CountSince(ctx, MonthStart(today))
	if err != nil {
		return nil, fmt.Errorf("count month attentions: %w", err)
	}

	year, err := s.attentionRepo.CountSince(ctx, today.AddDate(0, 0, -TrailingYearDays))
	if err != nil {
		return nil, fmt.Errorf("count year attentions: %w", err)
	}

	buckets := SeriesBuckets(today)
	series := Series{
		Labels: make([]string, 0, len(buckets)),
		Counts: make([]int64, 0, len(buckets)),
	}
	for _, b := range buckets {
		n, err := s.attentionRepo.CountBetween(ctx, b.Start, b.End)
		if err != nil {
			return nil, fmt.Errorf("count attentions %s: %w", b.Label, err)
		}
		series.Labels = append(series.Labels, b.Label)
		series.Counts = append(series.Counts, n)
	}

	return &DashboardStats{
		ActiveMinors:        active,
		AttentionsThisMonth: month,
		AttentionsLastYear:  year,
		Series:              series,
		Date:                today,
	}, nil
}
