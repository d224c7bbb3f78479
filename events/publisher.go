package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderCreated         EventType = "order.created"
	OrderStatusChanged   EventType = "order.status_changed"
	OrderCourierAssigned EventType = "order.courier_assigned"
	PaymentStatusChanged EventType = "payment.status_changed"
)

// OrderEvent is the message published on the orders topic.
type OrderEvent struct {
	Type           EventType        `json:"type"`
	OrderID        uint             `json:"pedido_id"`
	UserID         uint             `json:"usuario_id,omitempty"`
	RestaurantID   uint             `json:"restaurante_id,omitempty"`
	CourierID      *uint            `json:"entregador_id,omitempty"`
	Status         string           `json:"status,omitempty"`
	PreviousStatus string           `json:"status_anterior,omitempty"`
	Total          *decimal.Decimal `json:"total,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// NewOrderEvent fills the order-level fields of an event.
func NewOrderEvent(t EventType, order *models.Order) OrderEvent {
	return OrderEvent{
		Type:         t,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		CourierID:    order.CourierID,
		Status:       string(order.Status),
		Timestamp:    time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, evt OrderEvent) error
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrderEvent keys messages by order id so events of one order stay in
// the same partition.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, evt OrderEvent) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(evt.OrderID), 10)),
		Value: payload,
	})
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }
