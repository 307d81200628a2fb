package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Skotchmaster/product_catalog/internal/service"

type OrderMetrics struct {
	placed    metric.Int64Counter
	cancelled metric.Int64Counter
	value     metric.Float64Histogram
}

// NewOrderMetrics registers the order instruments on the global meter provider.
func NewOrderMetrics() (*OrderMetrics, error) {
	meter := otel.Meter(meterName)

	placed, err := meter.Int64Counter("orders_placed_total",
		metric.WithDescription("Orders placed successfully"))
	if err != nil {
		return nil, err
	}
	cancelled, err := meter.Int64Counter("orders_cancelled_total",
		metric.WithDescription("Orders cancelled with stock restored"))
	if err != nil {
		return nil, err
	}
	value, err := meter.Float64Histogram("order_value",
		metric.WithDescription("Total amount of placed orders"),
		metric.WithExplicitBucketBoundaries(50, 100, 250, 500, 1000, 2500, 5000, 10000))
	if err != nil {
		return nil, err
	}
	return &OrderMetrics{placed: placed, cancelled: cancelled, value: value}, nil
}

func (m *OrderMetrics) orderPlaced(ctx context.Context, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.placed.Add(ctx, 1)
	v, _ := total.Float64()
	m.value.Record(ctx, v)
}

func (m *OrderMetrics) orderCancelled(ctx context.Context) {
	if m == nil {
		return
	}
	m.cancelled.Add(ctx, 1)
}
