package services

import (
	"context"
	"testing"
	"time"

	"github.com/gaf135/ivegan-versao-atual/cache"
	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Dashboard(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()

	orders := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	first, err := orders.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)
	_, err = orders.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)
	_, err = orders.UpdatePaymentStatus(ctx, first.ID, "pago")
	require.NoError(t, err)

	// An order from two days ago is not counted as today's.
	old := time.Now().AddDate(0, 0, -2)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", first.ID).Update("created_at", old).Error)

	svc := NewStatsService(db, nil)
	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalRestaurants)
	assert.Equal(t, int64(1), stats.TotalCouriers)
	assert.Equal(t, int64(2), stats.TotalDishes)
	assert.Equal(t, int64(1), stats.OrdersToday)
	assert.True(t, stats.Revenue.Equal(decimal.RequireFromString("20")), stats.Revenue.String())
}

func TestStatsService_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	stats, err := NewStatsService(db, nil).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalUsers)
	assert.True(t, stats.Revenue.IsZero())
}

func TestStatsService_CacheAndInvalidate(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewStatsService(db, cache.NewRedisCache(client, time.Minute))
	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.True(t, mr.Exists(dashboardCacheKey))

	require.NoError(t, db.Create(&models.User{Name: "Bia", Email: "bia@x.com", PasswordHash: "x"}).Error)

	cached, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalUsers)

	orders := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	orders.Stats = svc
	_, err = orders.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)
	assert.False(t, mr.Exists(dashboardCacheKey))

	fresh, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalUsers)
	assert.Equal(t, int64(1), fresh.OrdersToday)
}

func TestStatsService_CacheDownFallsBackToDatabase(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	mr.Close()

	svc := NewStatsService(db, cache.NewRedisCache(client, time.Minute))
	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
}
