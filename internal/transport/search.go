package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type SearchFilters struct {
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	CategoryID    *uint            `json:"category_id,omitempty"`
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`
	MinRating     *float64         `json:"min_rating,omitempty"`
	MinStock      *int             `json:"min_stock,omitempty"`
	InStock       *bool            `json:"in_stock,omitempty"`
	CreatedFrom   *time.Time       `json:"created_from,omitempty"`
	CreatedTo     *time.Time       `json:"created_to,omitempty"`
	SortBy        string           `json:"sort_by"`
	SortDirection string           `json:"sort_direction"`
}

type AdvancedSearchResponse struct {
	Products   []ProductResponse `json:"products"`
	Filters    SearchFilters     `json:"filters"`
	Pagination Pagination        `json:"pagination"`
}

type SimilarProduct struct {
	Product         ProductResponse `json:"product"`
	Reasons         []string        `json:"reasons"`
	PriceDifference decimal.Decimal `json:"price_difference"`
}

type SimilarProductsResponse struct {
	Source  ProductResponse  `json:"source"`
	Similar []SimilarProduct `json:"similar"`
}

type NamedQuantity struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type CustomerBehavior struct {
	CustomerID            uint            `json:"customer_id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	City                  string          `json:"city"`
	RegisteredAt          time.Time       `json:"registered_at"`
	TotalOrders           int             `json:"total_orders"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	AverageOrderValue     decimal.Decimal `json:"average_order_value"`
	LastOrderDate         *time.Time      `json:"last_order_date"`
	TopCategories         []NamedQuantity `json:"top_categories"`
	TopProducts           []NamedQuantity `json:"top_products"`
	Segment               string          `json:"segment"`
	DaysSinceLastActivity int             `json:"days_since_last_activity"`
}

type BehaviorFilters struct {
	City            string           `json:"city,omitempty"`
	MinTotalSpent   *decimal.Decimal `json:"min_total_spent,omitempty"`
	MinOrderCount   *int             `json:"min_order_count,omitempty"`
	RegisteredAfter *time.Time       `json:"registered_after,omitempty"`
}

type CustomerBehaviorResponse struct {
	Customers  []CustomerBehavior `json:"customers"`
	Filters    BehaviorFilters    `json:"filters"`
	Pagination Pagination         `json:"pagination"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type PatternGroup struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	DayOfWeek         int             `json:"day_of_week"`
	DayName           string          `json:"day_name"`
	Hour              int             `json:"hour"`
	OrderCount        int             `json:"order_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	UniqueCustomers   int             `json:"unique_customers"`
	TopCategories     []NamedQuantity `json:"top_categories"`
}

// RollUp aggregates pattern groups sharing one key.
type RollUp struct {
	Groups            int             `json:"groups"`
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrders     float64         `json:"average_orders"`
	AverageRevenue    decimal.Decimal `json:"average_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type MonthlyPattern struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	RollUp
}

type WeekdayPattern struct {
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	RollUp
}

type HourlyPattern struct {
	Hour int `json:"hour"`
	RollUp
}

type PatternSummary struct {
	BestMonth    *MonthlyPattern `json:"best_month"`
	BestDay      *WeekdayPattern `json:"best_day"`
	BestHour     *HourlyPattern  `json:"best_hour"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Period       Period          `json:"period"`
}

type PurchasePatternsResponse struct {
	Patterns []PatternGroup   `json:"patterns"`
	Monthly  []MonthlyPattern `json:"monthly"`
	Weekday  []WeekdayPattern `json:"weekday"`
	Hourly   []HourlyPattern  `json:"hourly"`
	Summary  PatternSummary   `json:"summary"`
}

type IndexedSearchResponse struct {
	Products   []ProductResponse `json:"products"`
	Query      string            `json:"query"`
	Pagination Pagination        `json:"pagination"`
}
