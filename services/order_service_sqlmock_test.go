package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gaf135/ivegan-versao-atual/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func mockInput() PlaceOrderInput {
	return PlaceOrderInput{
		UserID:          1,
		RestaurantID:    2,
		DeliveryAddress: "Rua A, 1",
		PaymentMethod:   "cartao",
		Items: []ItemInput{
			{DishID: 3, Quantity: 1, Price: price("10.00")},
			{DishID: 4, Quantity: 1, Price: price("10.00")},
		},
		Total: price("20.00"),
	}
}

func TestOrderService_PlaceStatementOrder(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "order_status_histories"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	order, err := svc.Place(context.Background(), mockInput())
	require.NoError(t, err)
	assert.Equal(t, uint(10), order.ID)
	assert.Equal(t, uint(10), order.Items[1].OrderID)
	assert.Equal(t, uint(10), order.Payment.OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_PlaceRollsBackWhenItemInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Place(context.Background(), mockInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_PlaceRollsBackWhenPaymentInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	in := mockInput()
	in.Items = in.Items[:1]
	in.Total = price("10.00")

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Place(context.Background(), in)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_PlaceEmptyOrderNeverOpensTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	in := mockInput()
	in.Items = []ItemInput{}
	_, err := svc.Place(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_GetForUserReportsRestaurantLookupFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`FROM "orders"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "restaurant_id", "delivery_address", "status"}).
			AddRow(10, 1, 2, "Rua A, 1", "em preparação"))
	mock.ExpectQuery(`FROM "order_items"`).WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`FROM "payments"`).WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))
	mock.ExpectQuery(`FROM "restaurants"`).WillReturnError(errors.New("connection reset"))

	_, err := svc.GetForUser(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotErrorIs(t, err, ErrOrderNotFound)
}
