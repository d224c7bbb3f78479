package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSummary is one row of the customer's order list.
type OrderSummary struct {
	ID              uint               `json:"id"`
	CreatedAt       time.Time          `json:"data_criacao"`
	Status          models.OrderStatus `json:"status"`
	DeliveryAddress string             `json:"endereco_entrega"`
	RestaurantName  string             `json:"restaurante_nome"`
	Total           decimal.Decimal    `json:"total"`
}

// CustomerOrder is an order as shown to its owner, with items and payment.
type CustomerOrder struct {
	models.Order
	RestaurantName string          `json:"restaurante_nome"`
	Total          decimal.Decimal `json:"total"`
}

// AdminOrderRow is one row of the back office order list.
type AdminOrderRow struct {
	ID              uint               `json:"id"`
	CreatedAt       time.Time          `json:"data_criacao"`
	Status          models.OrderStatus `json:"status"`
	DeliveryAddress string             `json:"endereco_entrega"`
	UserID          uint               `json:"usuario_id"`
	UserName        string             `json:"usuario_nome"`
	RestaurantID    uint               `json:"restaurante_id"`
	RestaurantName  string             `json:"restaurante_nome"`
	CourierID       *uint              `json:"entregador_id"`
	Total           decimal.Decimal    `json:"total"`
}

// AdminOrderDetail joins an order with everyone involved in it.
type AdminOrderDetail struct {
	AdminOrderRow
	UserEmail       string                `json:"usuario_email"`
	UserPhone       *string               `json:"usuario_telefone"`
	RestaurantPhone *string               `json:"restaurante_telefone"`
	CourierName     *string               `json:"entregador_nome"`
	CourierStatus   *string               `json:"entregador_status"`
	PaymentMethod   *string               `json:"metodo_pagamento"`
	PaymentStatus   *models.PaymentStatus `json:"status_pagamento"`
}

// OrderItemRow is an order line with the dish name.
type OrderItemRow struct {
	ID       uint            `json:"id"`
	DishID   uint            `json:"prato_id"`
	DishName string          `json:"prato_nome"`
	Quantity int             `json:"quantidade"`
	Price    decimal.Decimal `json:"preco"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderFilter narrows the admin order list.
type OrderFilter struct {
	Status       string
	UserID       uint
	RestaurantID uint
}

const adminOrderSelect = `
SELECT o.id, o.created_at, o.status, o.delivery_address,
       o.user_id, u.name AS user_name,
       o.restaurant_id, r.public_name AS restaurant_name,
       o.courier_id,
       COALESCE(p.amount, 0) AS total`

const adminOrderFrom = `
FROM orders o
JOIN users u ON u.id = o.user_id
JOIN restaurants r ON r.id = o.restaurant_id
LEFT JOIN payments p ON p.order_id = o.id`

// ListForUser returns the caller's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]OrderSummary, error) {
	rows := []OrderSummary{}
	err := s.DB.WithContext(ctx).Raw(`
SELECT o.id, o.created_at, o.status, o.delivery_address,
       r.public_name AS restaurant_name,
       COALESCE(SUM(p.amount), 0) AS total
FROM orders o
JOIN restaurants r ON r.id = o.restaurant_id
LEFT JOIN payments p ON p.order_id = o.id
WHERE o.user_id = ?
GROUP BY o.id, o.created_at, o.status, o.delivery_address, r.public_name
ORDER BY o.created_at DESC, o.id DESC`, userID).Scan(&rows).Error
	return rows, err
}

// GetForUser returns one of the caller's orders. Orders of other users are
// reported as not found.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uint) (*CustomerOrder, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Preload("Restaurant", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "public_name")
		}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	out := &CustomerOrder{Order: order}
	if order.Restaurant != nil {
		out.RestaurantName = order.Restaurant.PublicName
	}
	if order.Payment != nil {
		out.Total = order.Payment.Amount
	}
	return out, nil
}

// List returns every order for the back office, newest first.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]AdminOrderRow, error) {
	query := adminOrderSelect + adminOrderFrom + "\nWHERE 1 = 1"
	var args []interface{}
	if f.Status != "" {
		query += " AND o.status = ?"
		args = append(args, f.Status)
	}
	if f.UserID != 0 {
		query += " AND o.user_id = ?"
		args = append(args, f.UserID)
	}
	if f.RestaurantID != 0 {
		query += " AND o.restaurant_id = ?"
		args = append(args, f.RestaurantID)
	}
	query += "\nORDER BY o.created_at DESC, o.id DESC"

	rows := []AdminOrderRow{}
	err := s.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

// Detail returns one order joined with its customer, restaurant, courier and payment.
func (s *OrderService) Detail(ctx context.Context, orderID uint) (*AdminOrderDetail, error) {
	var rows []AdminOrderDetail
	err := s.DB.WithContext(ctx).Raw(adminOrderSelect+`,
       u.email AS user_email, u.phone AS user_phone,
       r.phone AS restaurant_phone,
       c.name AS courier_name, c.status AS courier_status,
       p.method AS payment_method, p.status AS payment_status`+
		adminOrderFrom+`
LEFT JOIN couriers c ON c.id = o.courier_id
WHERE o.id = ?`, orderID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrOrderNotFound
	}
	return &rows[0], nil
}

// Items returns the lines of an order with dish names.
func (s *OrderService) Items(ctx context.Context, orderID uint) ([]OrderItemRow, error) {
	if err := s.ensureOrder(ctx, orderID); err != nil {
		return nil, err
	}
	rows := []OrderItemRow{}
	err := s.DB.WithContext(ctx).Raw(`
SELECT i.id, i.dish_id, d.name AS dish_name, i.quantity, i.price
FROM order_items i
JOIN dishes d ON d.id = i.dish_id
WHERE i.order_id = ?
ORDER BY i.id`, orderID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Subtotal = rows[i].Price.Mul(decimal.NewFromInt(int64(rows[i].Quantity)))
	}
	return rows, nil
}

// History returns the status changes of an order, oldest first.
func (s *OrderService) History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	if err := s.ensureOrder(ctx, orderID); err != nil {
		return nil, err
	}
	history := []models.OrderStatusHistory{}
	err := s.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&history).Error
	return history, err
}

func (s *OrderService) ensureOrder(ctx context.Context, orderID uint) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrOrderNotFound
	}
	return nil
}
