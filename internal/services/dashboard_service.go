package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yoockh/adchat/internal/cache"
	"github.com/yoockh/adchat/internal/models"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

const dashboardCacheKey = "dashboard:v1"

var retentionDays = []int{1, 7, 30}

type DashboardService interface {
	Get(ctx context.Context) (*models.Dashboard, error)
	Invalidate(ctx context.Context) error
}

type dashboardService struct {
	metrics pgrepo.MetricsRepository
	cache   cache.Cache // optional
	ttl     time.Duration
	now     func() time.Time
}

func NewDashboardService(metrics pgrepo.MetricsRepository, c cache.Cache, ttl time.Duration) DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &dashboardService{metrics: metrics, cache: c, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (s *dashboardService) Get(ctx context.Context) (*models.Dashboard, error) {
	const op = "DashboardService.Get"

	d, err := cache.Remember(ctx, s.cache, dashboardCacheKey, s.ttl, s.compute)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute dashboard metrics", err)
	}
	return d, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, dashboardCacheKey)
}

func (s *dashboardService) compute(ctx context.Context) (*models.Dashboard, error) {
	now := s.now()
	d := &models.Dashboard{Retention: make(map[string]float64, len(retentionDays))}

	var err error
	if d.DAU, err = s.metrics.CountActiveUsersSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return nil, err
	}
	if d.MAU, err = s.metrics.CountActiveUsersSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}

	for _, days := range retentionDays {
		key := fmt.Sprintf("%d_day", days)
		cutoff := now.AddDate(0, 0, -days)

		cohort, err := s.metrics.CountUsersCreatedBefore(ctx, cutoff)
		if err != nil {
			return nil, err
		}
		if cohort == 0 {
			d.Retention[key] = 0
			continue
		}
		retained, err := s.metrics.CountRetainedUsers(ctx, cutoff, days)
		if err != nil {
			return nil, err
		}
		d.Retention[key] = percent(retained, cohort)
	}

	if d.AssistantPopularity, err = s.metrics.AssistantPopularity(ctx); err != nil {
		return nil, err
	}
	if d.MessageVolume, err = s.metrics.MessageVolume(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}

	total, err := s.metrics.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		active, err := s.metrics.CountActiveUsersSince(ctx, time.Time{})
		if err != nil {
			return nil, err
		}
		d.ConversionRate = percent(active, total)
	}

	if d.CTRStats, err = s.metrics.ProductCTR(ctx); err != nil {
		return nil, err
	}
	for i := range d.CTRStats {
		d.CTRStats[i].CTR = models.CTR(d.CTRStats[i].Clicks, d.CTRStats[i].Impressions)
	}
	return d, nil
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
