package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/events"
	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: "sqlite", DBSource: filepath.Join(t.TempDir(), "test.db")}
	db, err := config.OpenDB(cfg)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type fixture struct {
	User       models.User
	Restaurant models.Restaurant
	Other      models.Restaurant
	Dish       models.Dish
	OtherDish  models.Dish
	Courier    models.Courier
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		User:       models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "x"},
		Restaurant: models.Restaurant{PublicName: "Verde Vida", LegalName: "Verde Vida LTDA", TaxID: "11.111.111/0001-11"},
		Other:      models.Restaurant{PublicName: "Horta", LegalName: "Horta ME", TaxID: "22.222.222/0001-22", Category: models.CategoryMarket},
		Courier:    models.Courier{Name: "Caio", CPF: "123.456.789-00", VehicleType: "moto"},
	}
	require.NoError(t, db.Create(&f.User).Error)
	require.NoError(t, db.Create(&f.Restaurant).Error)
	require.NoError(t, db.Create(&f.Other).Error)
	require.NoError(t, db.Create(&f.Courier).Error)

	f.Dish = models.Dish{RestaurantID: f.Restaurant.ID, Name: "Bowl de quinoa", Price: decimal.RequireFromString("10.00"), Type: "vegano"}
	f.OtherDish = models.Dish{RestaurantID: f.Other.ID, Name: "Tofu", Price: decimal.RequireFromString("7.50"), Type: "vegano"}
	require.NoError(t, db.Create(&f.Dish).Error)
	require.NoError(t, db.Create(&f.OtherDish).Error)
	return f
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderEvent(ctx context.Context, evt events.OrderEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func eventOfType(t events.EventType) interface{} {
	return mock.MatchedBy(func(evt events.OrderEvent) bool { return evt.Type == t })
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }
