package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"size:100;not null"         json:"name"`
	Description string    `gorm:"size:500"                  json:"description"`
	Active      bool      `gorm:"not null;default:true"     json:"active"`
	CreatedAt   time.Time `gorm:"not null"                  json:"created_at"`
}

// Product.Category only declares the foreign key; it is never loaded.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"               json:"id"`
	Name        string          `gorm:"size:200;not null;index"                json:"name"`
	Description string          `gorm:"size:1000"                              json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"            json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"     json:"stock"`
	Brand       string          `gorm:"size:100;index"                         json:"brand"`
	Rating      *float64        `gorm:"type:decimal(3,2)"                      json:"rating"`
	ImageURL    string          `gorm:"size:500"                               json:"image_url"`
	CategoryID  uint            `gorm:"not null;index"                         json:"category_id"`
	Category    *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Active      bool            `gorm:"not null;default:true;index"            json:"active"`
	CreatedAt   time.Time       `gorm:"not null"                               json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null"                               json:"updated_at"`
}

type Customer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name       string    `gorm:"size:200;not null"         json:"name"`
	Email      string    `gorm:"size:200;not null;index"   json:"email"`
	Phone      string    `gorm:"size:20"                   json:"phone"`
	Address    string    `gorm:"size:300"                  json:"address"`
	City       string    `gorm:"size:100;index"            json:"city"`
	PostalCode string    `gorm:"size:20"                   json:"postal_code"`
	Active     bool      `gorm:"not null;default:true"     json:"active"`
	CreatedAt  time.Time `gorm:"not null"                  json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus matches s against the known statuses, ignoring case.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range OrderStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	case nil:
		*s = ""
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}
	return nil
}

// Final reports whether the status no longer allows cancellation.
func (s OrderStatus) Final() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	CustomerID  uint            `gorm:"not null;index"                       json:"customer_id"`
	Customer    *Customer       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OrderDate   time.Time       `gorm:"not null;index"                       json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"          json:"total_amount"`
	Status      OrderStatus     `gorm:"size:20;not null;index"               json:"status"`
	Notes       string          `gorm:"size:1000"                            json:"notes"`
	Items       []OrderItem     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderID   uint            `gorm:"not null;index"                json:"order_id"`
	ProductID uint            `gorm:"not null;index"                json:"product_id"`
	Product   *Product        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null;check:quantity > 0"    json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"line_total"`
}

func (Category) TableName() string  { return "categories" }
func (Product) TableName() string   { return "products" }
func (Customer) TableName() string  { return "customers" }
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
