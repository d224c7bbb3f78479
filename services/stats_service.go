package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dashboardCacheKey = "admin:stats"

// DashboardStats are the back office headline numbers.
type DashboardStats struct {
	TotalUsers       int64           `json:"totalUsuarios"`
	TotalRestaurants int64           `json:"totalRestaurantes"`
	OrdersToday      int64           `json:"pedidosHoje"`
	TotalCouriers    int64           `json:"totalEntregadores"`
	TotalDishes      int64           `json:"totalPratos"`
	Revenue          decimal.Decimal `json:"receitaTotal"`
}

// StatsCache is the part of cache.RedisCache the stats service uses.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type StatsService struct {
	DB    *gorm.DB
	Cache StatsCache
	Now   func() time.Time
}

func NewStatsService(db *gorm.DB, cache StatsCache) *StatsService {
	return &StatsService{DB: db, Cache: cache, Now: time.Now}
}

// Dashboard returns the current numbers, from cache when fresh.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.Cache != nil {
		var cached DashboardStats
		hit, err := s.Cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			log.Printf("stats cache read: %v", err)
		}
		if hit {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, dashboardCacheKey, stats); err != nil {
			log.Printf("stats cache write: %v", err)
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Restaurant{}, &stats.TotalRestaurants},
		{&models.Courier{}, &stats.TotalCouriers},
		{&models.Dish{}, &stats.TotalDishes},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	now := s.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Order{}).Where("created_at >= ?", midnight).Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("count orders today: %w", err)
	}

	var revenue struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", models.PaymentPaid).
		Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.Revenue = revenue.Total
	return stats, nil
}

// Invalidate drops the cached numbers. Errors are logged only.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, dashboardCacheKey); err != nil {
		log.Printf("stats cache invalidate: %v", err)
	}
}
