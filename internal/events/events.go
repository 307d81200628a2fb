// Package events publishes catalog domain events to kafka.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicProducts = "product_events"
	TopicOrders   = "order_events"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
	StockUpdated   = "stock_updated"

	OrderPlaced        = "order_placed"
	OrderStatusChanged = "order_status_changed"
	OrderCancelled     = "order_cancelled"
	OrderDeleted       = "order_deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func New(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Nop discards every event. It stands in when no brokers are configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
