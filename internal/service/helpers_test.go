package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/internal/events"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/service"
	"github.com/Skotchmaster/product_catalog/internal/testdb"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: event.(events.Event)})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uint]string
	deleted []uint
	hits    []uint
	total   int64
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uint]string{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product, categoryName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = categoryName
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	return f.total, f.hits, nil
}

// clock is a settable time source for services that stamp dates.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		return time.Now().UTC()
	}
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	repo       *repo.GormRepo
	events     *fakePublisher
	index      *fakeIndex
	clock      *clock
	products   *service.ProductService
	categories *service.CategoryService
	customers  *service.CustomerService
	orders     *service.OrderService
	search     *service.SearchService
	analytics  *service.AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := &repo.GormRepo{DB: testdb.Seeded(t)}
	pub := &fakePublisher{}
	idx := newFakeIndex()
	clk := &clock{}
	return &fixture{
		repo:       r,
		events:     pub,
		index:      idx,
		clock:      clk,
		products:   &service.ProductService{Repo: r, Events: pub, Index: idx},
		categories: &service.CategoryService{Repo: r},
		customers:  &service.CustomerService{Repo: r},
		orders:     &service.OrderService{Repo: r, Events: pub, Now: clk.Now},
		search:     &service.SearchService{Repo: r, Index: idx, Now: clk.Now},
		analytics:  &service.AnalyticsService{Repo: r, Now: clk.Now},
	}
}

func (f *fixture) place(t *testing.T, customerID uint, lines map[uint]int) *transport.OrderResponse {
	t.Helper()

	req := transport.CreateOrderRequest{CustomerID: customerID}
	for productID, qty := range lines {
		req.Items = append(req.Items, transport.OrderLineRequest{ProductID: productID, Quantity: qty})
	}
	o, err := f.orders.Place(context.Background(), req)
	require.NoError(t, err)
	return o
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()

	p, err := f.repo.GetActiveProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
