package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisherPublishOrderEvent(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	order := &models.Order{ID: 42, UserID: 1, RestaurantID: 2, Status: models.StatusPreparing}
	evt := NewOrderEvent(OrderCreated, order)
	total := decimal.RequireFromString("25.00")
	evt.Total = &total

	require.NoError(t, p.PublishOrderEvent(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.Equal(t, float64(42), decoded["pedido_id"])
	assert.Equal(t, float64(1), decoded["usuario_id"])
	assert.Equal(t, "em preparação", decoded["status"])
	assert.Equal(t, float64(25), decoded["total"])
	assert.NotContains(t, decoded, "entregador_id")
}

func TestKafkaPublisherPropagatesWriterError(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")})
	err := p.PublishOrderEvent(context.Background(), OrderEvent{Type: OrderStatusChanged, OrderID: 1})
	assert.EqualError(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishOrderEvent(context.Background(), OrderEvent{}))
}
