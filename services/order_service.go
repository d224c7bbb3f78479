package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/events"
	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gaf135/ivegan-versao-atual/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsInvalidator drops cached dashboard numbers after writes that change them.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type OrderService struct {
	DB          *gorm.DB
	Events      events.Publisher
	PricePolicy string
	DeliveryFee decimal.Decimal
	Stats       StatsInvalidator
}

func NewOrderService(db *gorm.DB, publisher events.Publisher, policy string, fee decimal.Decimal) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{DB: db, Events: publisher, PricePolicy: policy, DeliveryFee: fee}
}

type ItemInput struct {
	DishID   uint             `json:"prato_id"`
	Quantity int              `json:"quantidade"`
	Price    *decimal.Decimal `json:"preco"`
}

type PlaceOrderInput struct {
	UserID          uint
	RestaurantID    uint
	DeliveryAddress string
	PaymentMethod   string
	PaymentStatus   models.PaymentStatus
	CourierID       *uint
	Items           []ItemInput
	Total           *decimal.Decimal
	PlacedBy        uint
}

func (s *OrderService) catalogPrices() bool {
	return s.PricePolicy == config.PricePolicyCatalog
}

func (s *OrderService) validate(in *PlaceOrderInput) error {
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	if in.UserID == 0 || in.RestaurantID == 0 || in.DeliveryAddress == "" || in.PaymentMethod == "" {
		return fmt.Errorf("%w: restaurante_id, endereco_entrega e metodo_pagamento são obrigatórios", ErrValidation)
	}
	if len(in.Items) == 0 {
		return ErrEmptyOrder
	}
	for i, item := range in.Items {
		if item.DishID == 0 {
			return fmt.Errorf("%w: item %d sem prato_id", ErrValidation, i+1)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d com quantidade menor que 1", ErrValidation, i+1)
		}
		if s.catalogPrices() {
			continue
		}
		if item.Price == nil || item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d com preço inválido", ErrValidation, i+1)
		}
	}
	if !s.catalogPrices() && (in.Total == nil || !in.Total.IsPositive()) {
		return fmt.Errorf("%w: total deve ser maior que zero", ErrValidation)
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	if _, err := statemachine.ParsePaymentStatus(string(in.PaymentStatus)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Place writes the order, its items, its payment and the first history row in
// one transaction. Nothing persists if any statement fails.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, total, err := s.priceItems(tx, &in)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          in.UserID,
			RestaurantID:    in.RestaurantID,
			CourierID:       in.CourierID,
			DeliveryAddress: in.DeliveryAddress,
			Status:          models.StatusPreparing,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Omit(clause.Associations).Create(&items[i]).Error; err != nil {
				return fmt.Errorf("insert order item %d: %w", i+1, err)
			}
		}

		payment := models.Payment{
			OrderID: order.ID,
			Amount:  total,
			Method:  in.PaymentMethod,
			Status:  in.PaymentStatus,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPreparing,
			ChangedBy: in.PlacedBy,
			Note:      "Pedido criado",
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("insert status history: %w", err)
		}

		order.Items = items
		order.Payment = &payment
		return nil
	})
	if err != nil {
		if config.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownReference, err)
		}
		return nil, err
	}

	evt := events.NewOrderEvent(events.OrderCreated, &order)
	evt.Total = &order.Payment.Amount
	s.publish(ctx, evt)
	s.invalidateStats(ctx)
	return &order, nil
}

// priceItems builds the item rows and the payment amount according to the
// price policy.
func (s *OrderService) priceItems(tx *gorm.DB, in *PlaceOrderInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, len(in.Items))
	sum := decimal.Zero

	if !s.catalogPrices() {
		for i, item := range in.Items {
			items[i] = models.OrderItem{DishID: item.DishID, Quantity: item.Quantity, Price: *item.Price}
			sum = sum.Add(items[i].Subtotal())
		}
		total := *in.Total
		if !total.Equal(sum) && !total.Equal(sum.Add(s.DeliveryFee)) {
			log.Printf("⚠️ order total %s differs from item sum %s (restaurant %d, user %d)",
				total.StringFixed(2), sum.StringFixed(2), in.RestaurantID, in.UserID)
		}
		return items, total, nil
	}

	ids := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.DishID)
	}
	var dishes []models.Dish
	if err := tx.Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, decimal.Zero, fmt.Errorf("load dishes: %w", err)
	}
	byID := make(map[uint]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	for i, item := range in.Items {
		dish, ok := byID[item.DishID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: prato %d", ErrUnknownReference, item.DishID)
		}
		if dish.RestaurantID != in.RestaurantID {
			return nil, decimal.Zero, fmt.Errorf("%w: prato %d", ErrDishNotInRestaurant, item.DishID)
		}
		items[i] = models.OrderItem{DishID: dish.ID, Quantity: item.Quantity, Price: dish.Price}
		sum = sum.Add(items[i].Subtotal())
	}
	return items, sum.Add(s.DeliveryFee), nil
}

// StatusChange is the outcome of an admin status write.
type StatusChange struct {
	OrderID        uint               `json:"pedido_id"`
	PreviousStatus models.OrderStatus `json:"status_anterior"`
	Status         models.OrderStatus `json:"status"`
}

// UpdateStatus writes any known status, recording the change in the history.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, raw string, changedBy uint, note string) (*StatusChange, error) {
	status, err := statemachine.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	var order models.Order
	var prev models.OrderStatus
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if err := statemachine.CanTransition(order.Status, status); err != nil {
			return err
		}
		prev = order.Status
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   status,
			ChangedBy:  changedBy,
			Note:       note,
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	evt := events.NewOrderEvent(events.OrderStatusChanged, &order)
	evt.PreviousStatus = string(prev)
	s.publish(ctx, evt)
	s.invalidateStats(ctx)
	return &StatusChange{OrderID: order.ID, PreviousStatus: prev, Status: status}, nil
}

// AssignCourier sets or clears the courier of an order. There is no
// exclusivity: one courier may hold several orders.
func (s *OrderService) AssignCourier(ctx context.Context, orderID uint, courierID *uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if courierID != nil {
			var courier models.Courier
			if err := tx.First(&courier, *courierID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCourierNotFound
				}
				return err
			}
		}
		if err := tx.Model(&order).Update("courier_id", courierID).Error; err != nil {
			return fmt.Errorf("assign courier: %w", err)
		}
		order.CourierID = courierID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewOrderEvent(events.OrderCourierAssigned, &order))
	return &order, nil
}

// UpdatePaymentStatus changes the stored payment label of an order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint, raw string) (*models.Payment, error) {
	status, err := statemachine.ParsePaymentStatus(raw)
	if err != nil {
		return nil, err
	}

	var order models.Order
	var payment models.Payment
	var prev models.PaymentStatus
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		prev = payment.Status
		payment.Status = status
		return tx.Model(&payment).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	evt := events.NewOrderEvent(events.PaymentStatusChanged, &order)
	evt.Status = string(status)
	evt.PreviousStatus = string(prev)
	evt.Total = &payment.Amount
	s.publish(ctx, evt)
	s.invalidateStats(ctx)
	return &payment, nil
}

func (s *OrderService) publish(ctx context.Context, evt events.OrderEvent) {
	if s.Events == nil {
		return
	}
	// The write is committed; a lost event must not fail the request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.PublishOrderEvent(ctx, evt); err != nil {
		log.Printf("publish %s for order %d: %v", evt.Type, evt.OrderID, err)
	}
}

func (s *OrderService) invalidateStats(ctx context.Context) {
	if s.Stats != nil {
		s.Stats.Invalidate(ctx)
	}
}
