package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

type ProductRequest struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"       validate:"gte=0"`
	Brand       string          `json:"brand"       validate:"max=100"`
	Rating      *float64        `json:"rating"      validate:"omitempty,gte=0,lte=5"`
	ImageURL    string          `json:"image_url"   validate:"max=500"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

type StockRequest struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

type CategoryRequest struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type CustomerRequest struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"        validate:"required,max=200"`
	Email      string `json:"email"       validate:"required,email,max=200"`
	Phone      string `json:"phone"       validate:"max=20"`
	Address    string `json:"address"     validate:"max=300"`
	City       string `json:"city"        validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
}

type OrderLineRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID uint               `json:"customer_id" validate:"required"`
	Notes      string             `json:"notes"       validate:"max=1000"`
	Items      []OrderLineRequest `json:"items"       validate:"required,min=1,dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Brand        string          `json:"brand"`
	Rating       *float64        `json:"rating"`
	ImageURL     string          `json:"image_url"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewProductResponse(p models.Product, categoryName string) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Brand:        p.Brand,
		Rating:       p.Rating,
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type CategoryResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	ProductCount int64     `json:"product_count"`
}

type CategoryStatsResponse struct {
	CategoryID   uint            `json:"category_id"`
	Name         string          `json:"name"`
	ProductCount int64           `json:"product_count"`
	TotalStock   int64           `json:"total_stock"`
	AveragePrice decimal.Decimal `json:"average_price"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type CustomerStatsResponse struct {
	CustomerID        uint             `json:"customer_id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	TotalOrders       int              `json:"total_orders"`
	TotalSpent        decimal.Decimal  `json:"total_spent"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	FirstOrderDate    *time.Time       `json:"first_order_date"`
	LastOrderDate     *time.Time       `json:"last_order_date"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
}

type OrderItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	CustomerID   uint                `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	OrderDate    time.Time           `json:"order_date"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       models.OrderStatus  `json:"status"`
	Notes        string              `json:"notes"`
	Items        []OrderItemResponse `json:"items"`
}

type ProductSalesResponse struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	OrderCount   int64           `json:"order_count"`
}

type SalesReportResponse struct {
	StartDate         time.Time              `json:"start_date"`
	EndDate           time.Time              `json:"end_date"`
	TotalOrders       int64                  `json:"total_orders"`
	TotalRevenue      decimal.Decimal        `json:"total_revenue"`
	AverageOrderValue decimal.Decimal        `json:"average_order_value"`
	OrdersByStatus    map[string]int64       `json:"orders_by_status"`
	TopProducts       []ProductSalesResponse `json:"top_products"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
}
