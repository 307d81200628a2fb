package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/events"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/pkg/logging"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product, categoryName string) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

// publish is best effort: the write it describes is already committed.
func publish(ctx context.Context, pub EventPublisher, topic, key, eventType string, data any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", eventType, "error", err)
	}
}

func nowUTC(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// average divides sum by n and is zero for empty groups.
func average(sum decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(n)).Round(2)
}
