package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/events"
	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gaf135/ivegan-versao-atual/statemachine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placeInput(f fixture, items ...ItemInput) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:          f.User.ID,
		RestaurantID:    f.Restaurant.ID,
		DeliveryAddress: "Rua das Flores, 10",
		PaymentMethod:   "pix",
		Items:           items,
		Total:           price("20.00"),
		PlacedBy:        f.User.ID,
	}
}

func TestOrderService_PlaceWritesEverythingInOneTransaction(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	pub := &mockPublisher{}
	pub.On("PublishOrderEvent", mock.Anything, eventOfType(events.OrderCreated)).Return(nil).Once()
	stats := &countingInvalidator{}

	svc := NewOrderService(db, pub, config.PricePolicyClient, decimal.RequireFromString("5.00"))
	svc.Stats = stats

	order, err := svc.Place(context.Background(), placeInput(f,
		ItemInput{DishID: f.Dish.ID, Quantity: 1, Price: price("10.00")},
		ItemInput{DishID: f.Dish.ID, Quantity: 1, Price: price("10.00")},
	))
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	assert.Equal(t, models.StatusPreparing, order.Status)

	assert.Equal(t, int64(1), countRows(t, db, &models.Order{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.OrderItem{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Payment{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.OrderStatusHistory{}))

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	for _, item := range items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.True(t, item.Price.Equal(decimal.RequireFromString("10")))
	}

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, "pix", payment.Method)
	assert.Equal(t, models.PaymentPending, payment.Status)

	assert.Equal(t, 1, stats.calls)
	pub.AssertExpectations(t)
}

func TestOrderService_PlaceValidation(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	tests := []struct {
		name    string
		mutate  func(in *PlaceOrderInput)
		wantErr error
	}{
		{
			name:    "empty item list",
			mutate:  func(in *PlaceOrderInput) { in.Items = nil },
			wantErr: ErrEmptyOrder,
		},
		{
			name:    "missing address",
			mutate:  func(in *PlaceOrderInput) { in.DeliveryAddress = "   " },
			wantErr: ErrValidation,
		},
		{
			name:    "missing payment method",
			mutate:  func(in *PlaceOrderInput) { in.PaymentMethod = "" },
			wantErr: ErrValidation,
		},
		{
			name:    "zero quantity",
			mutate:  func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 },
			wantErr: ErrValidation,
		},
		{
			name:    "negative price",
			mutate:  func(in *PlaceOrderInput) { in.Items[0].Price = price("-1") },
			wantErr: ErrValidation,
		},
		{
			name:    "missing total",
			mutate:  func(in *PlaceOrderInput) { in.Total = nil },
			wantErr: ErrValidation,
		},
		{
			name:    "zero total",
			mutate:  func(in *PlaceOrderInput) { in.Total = price("0") },
			wantErr: ErrValidation,
		},
		{
			name:    "unknown payment status",
			mutate:  func(in *PlaceOrderInput) { in.PaymentStatus = "estornado" },
			wantErr: ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")})
			tc.mutate(&in)
			_, err := svc.Place(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
		})
	}
}

func TestOrderService_PlaceFailingItemLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	pub := &mockPublisher{}
	svc := NewOrderService(db, pub, config.PricePolicyClient, decimal.Zero)

	_, err := svc.Place(context.Background(), placeInput(f,
		ItemInput{DishID: f.Dish.ID, Quantity: 1, Price: price("10.00")},
		ItemInput{DishID: 9999, Quantity: 1, Price: price("10.00")},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownReference)

	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderItem{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderStatusHistory{}))
	pub.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceUnknownRestaurant(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	in := placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")})
	in.RestaurantID = 4242
	_, err := svc.Place(context.Background(), in)
	assert.ErrorIs(t, err, ErrUnknownReference)
	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
}

func TestOrderService_PlaceKeepsClientPrices(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)

	in := placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("1.00")})
	in.Total = price("2.00")
	order, err := svc.Place(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("1")))
	assert.True(t, order.Payment.Amount.Equal(decimal.RequireFromString("2")))
}

func TestOrderService_PlaceCatalogPolicy(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyCatalog, decimal.RequireFromString("5.00"))

	in := placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 3, Price: price("0.01")})
	in.Total = nil
	order, err := svc.Place(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("10")))
	assert.True(t, order.Payment.Amount.Equal(decimal.RequireFromString("35")))

	foreign := placeInput(f, ItemInput{DishID: f.OtherDish.ID, Quantity: 1})
	_, err = svc.Place(context.Background(), foreign)
	assert.ErrorIs(t, err, ErrDishNotInRestaurant)

	missing := placeInput(f, ItemInput{DishID: 777, Quantity: 1})
	_, err = svc.Place(context.Background(), missing)
	assert.ErrorIs(t, err, ErrUnknownReference)

	assert.Equal(t, int64(1), countRows(t, db, &models.Order{}))
}

func TestOrderService_PlaceSurvivesPublishFailure(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	pub := &mockPublisher{}
	pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc := NewOrderService(db, pub, config.PricePolicyClient, decimal.Zero)

	_, err := svc.Place(context.Background(), placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &models.Order{}))
}

func TestOrderService_UpdateStatusIsPermissive(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	pub := &mockPublisher{}
	pub.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	svc := NewOrderService(db, pub, config.PricePolicyClient, decimal.Zero)
	ctx := context.Background()

	order, err := svc.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)

	change, err := svc.UpdateStatus(ctx, order.ID, "entregue", 99, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, change.PreviousStatus)
	assert.Equal(t, models.StatusDelivered, change.Status)

	change, err = svc.UpdateStatus(ctx, order.ID, "em preparação", 99, "voltou")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, change.PreviousStatus)

	history, err := svc.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusDelivered, history[1].ToStatus)
	assert.Equal(t, models.StatusPreparing, history[2].ToStatus)
	assert.Equal(t, uint(99), history[2].ChangedBy)

	_, err = svc.UpdateStatus(ctx, order.ID, "voando", 99, "")
	assert.ErrorIs(t, err, statemachine.ErrUnknownStatus)

	_, err = svc.UpdateStatus(ctx, 12345, "entregue", 99, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	pub.AssertCalled(t, "PublishOrderEvent", mock.Anything, eventOfType(events.OrderStatusChanged))
}

func TestOrderService_AssignCourier(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	ctx := context.Background()

	order, err := svc.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)

	updated, err := svc.AssignCourier(ctx, order.ID, &f.Courier.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CourierID)
	assert.Equal(t, f.Courier.ID, *updated.CourierID)

	missing := uint(555)
	_, err = svc.AssignCourier(ctx, order.ID, &missing)
	assert.ErrorIs(t, err, ErrCourierNotFound)

	_, err = svc.AssignCourier(ctx, 999, &f.Courier.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	updated, err = svc.AssignCourier(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.CourierID)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Nil(t, stored.CourierID)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	stats := &countingInvalidator{}
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	svc.Stats = stats
	ctx := context.Background()

	order, err := svc.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)

	payment, err := svc.UpdatePaymentStatus(ctx, order.ID, "pago")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, payment.Status)
	assert.Equal(t, 2, stats.calls)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, "estornado")
	assert.ErrorIs(t, err, statemachine.ErrUnknownPaymentStatus)

	_, err = svc.UpdatePaymentStatus(ctx, 999, "pago")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Reads(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db)
	svc := NewOrderService(db, nil, config.PricePolicyClient, decimal.Zero)
	ctx := context.Background()

	order, err := svc.Place(ctx, placeInput(f, ItemInput{DishID: f.Dish.ID, Quantity: 2, Price: price("10.00")}))
	require.NoError(t, err)
	_, err = svc.AssignCourier(ctx, order.ID, &f.Courier.ID)
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, f.User.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
	assert.Equal(t, "Verde Vida", mine[0].RestaurantName)
	assert.True(t, mine[0].Total.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, models.StatusPreparing, mine[0].Status)

	none, err := svc.ListForUser(ctx, f.User.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)

	detail, err := svc.GetForUser(ctx, f.User.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)
	assert.Equal(t, "Verde Vida", detail.RestaurantName)

	_, err = svc.GetForUser(ctx, f.User.ID+100, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	rows, err := svc.List(ctx, OrderFilter{Status: string(models.StatusPreparing)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].UserName)

	rows, err = svc.List(ctx, OrderFilter{Status: string(models.StatusDelivered)})
	require.NoError(t, err)
	assert.Empty(t, rows)

	adminDetail, err := svc.Detail(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, adminDetail.CourierName)
	assert.Equal(t, "Caio", *adminDetail.CourierName)
	require.NotNil(t, adminDetail.PaymentMethod)
	assert.Equal(t, "pix", *adminDetail.PaymentMethod)

	_, err = svc.Detail(ctx, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	items, err := svc.Items(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bowl de quinoa", items[0].DishName)
	assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("20")))

	_, err = svc.Items(ctx, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
