package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

const overviewCacheKey = "overview:stats"

type overviewProfileReader interface {
	CountAll(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]models.Profile, error)
	DailyNewCounts(ctx context.Context, since time.Time) (map[string]int, error)
}

type overviewSubscriptionReader interface {
	CountByStatus(ctx context.Context, status models.SubscriptionStatus) (int, error)
}

type overviewContentReader interface {
	CountAll(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]models.Content, error)
}

type overviewAccessCodeReader interface {
	CountUsed(ctx context.Context) (int, error)
}

// OverviewServiceConfig tunes dashboard aggregation.
type OverviewServiceConfig struct {
	CacheTTL time.Duration
}

// OverviewService aggregates dashboard statistics.
type OverviewService struct {
	profiles      overviewProfileReader
	subscriptions overviewSubscriptionReader
	content       overviewContentReader
	accessCodes   overviewAccessCodeReader
	cache         *CacheService
	logger        *zap.Logger
	cfg           OverviewServiceConfig
	now           func() time.Time
}

// NewOverviewService constructs the overview service.
func NewOverviewService(
	profiles overviewProfileReader,
	subscriptions overviewSubscriptionReader,
	content overviewContentReader,
	accessCodes overviewAccessCodeReader,
	cache *CacheService,
	logger *zap.Logger,
	cfg *OverviewServiceConfig,
) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := OverviewServiceConfig{CacheTTL: time.Minute}
	if cfg != nil && cfg.CacheTTL > 0 {
		resolved = *cfg
	}
	return &OverviewService{
		profiles:      profiles,
		subscriptions: subscriptions,
		content:       content,
		accessCodes:   accessCodes,
		cache:         cache,
		logger:        logger,
		cfg:           resolved,
		now:           time.Now,
	}
}

// Stats returns the dashboard payload, served from cache when fresh. The
// second return reports whether the payload came from the cache.
func (s *OverviewService) Stats(ctx context.Context) (*models.OverviewStats, bool, error) {
	var cached models.OverviewStats
	if hit, err := s.cache.Get(ctx, overviewCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.aggregate(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, overviewCacheKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("overview cache write failed", zap.Error(err))
	}
	return stats, false, nil
}

func (s *OverviewService) aggregate(ctx context.Context) (*models.OverviewStats, error) {
	totalStudents, err := s.profiles.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	activeSubs, err := s.subscriptions.CountByStatus(ctx, models.SubscriptionStatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active subscriptions")
	}
	expiredSubs, err := s.subscriptions.CountByStatus(ctx, models.SubscriptionStatusExpired)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count expired subscriptions")
	}
	totalContent, err := s.content.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count content")
	}
	usedCodes, err := s.accessCodes.CountUsed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count used access codes")
	}

	activity, err := s.recentActivity(ctx)
	if err != nil {
		return nil, err
	}
	trend, err := s.newUsersTrend(ctx)
	if err != nil {
		return nil, err
	}

	return &models.OverviewStats{
		TotalStudents:        totalStudents,
		ActiveSubscriptions:  activeSubs,
		ExpiredSubscriptions: expiredSubs,
		TotalContentItems:    totalContent,
		UsedAccessCodes:      usedCodes,
		RecentActivity:       activity,
		SubscriptionStatusBreakdown: []models.StatusCount{
			{Name: "Active", Value: activeSubs},
			{Name: "Expired", Value: expiredSubs},
		},
		NewUsersTrend: trend,
	}, nil
}

// recentActivity merges the five newest registrations with the five newest
// uploads, newest first, capped at ten entries.
func (s *OverviewService) recentActivity(ctx context.Context) ([]models.ActivityItem, error) {
	profiles, err := s.profiles.Recent(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent profiles")
	}
	content, err := s.content.Recent(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent content")
	}

	items := make([]models.ActivityItem, 0, len(profiles)+len(content))
	for _, p := range profiles {
		items = append(items, models.ActivityItem{
			ID:          p.UserID,
			Type:        "registration",
			Description: fmt.Sprintf("New student registered: %s", p.FullName),
			Timestamp:   p.CreatedAt,
		})
	}
	for _, c := range content {
		items = append(items, models.ActivityItem{
			ID:          c.ID,
			Type:        "content",
			Description: fmt.Sprintf("Content uploaded: %s", c.Title),
			Timestamp:   c.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > 10 {
		items = items[:10]
	}
	return items, nil
}

// newUsersTrend buckets profile registrations from the last seven days.
func (s *OverviewService) newUsersTrend(ctx context.Context) ([]models.TrendPoint, error) {
	now := s.now().UTC()
	since := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	counts, err := s.profiles.DailyNewCounts(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration trend")
	}
	points := make([]models.TrendPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := since.AddDate(0, 0, i)
		points = append(points, models.TrendPoint{
			Name:  day.Format("Jan 2"),
			Users: counts[day.Format("2006-01-02")],
		})
	}
	return points, nil
}
