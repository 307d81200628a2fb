package transport

import "github.com/shopspring/decimal"

type Dashboard struct {
	TotalProducts     int64           `json:"total_products"`
	TotalCategories   int64           `json:"total_categories"`
	TotalCustomers    int64           `json:"total_customers"`
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PendingOrders     int64           `json:"pending_orders"`
	LowStockProducts  int64           `json:"low_stock_products"`
	OrdersToday       int64           `json:"orders_today"`
	RevenueThisMonth  decimal.Decimal `json:"revenue_this_month"`
}

type CategorySalesResponse struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	UnitsSold  int64           `json:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

type TopCustomerResponse struct {
	CustomerID uint            `json:"customer_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	City       string          `json:"city"`
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type MonthlySales struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	MonthName         string          `json:"month_name"`
	OrderCount        int             `json:"order_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type PriceRangeBucket struct {
	Range        string           `json:"range"`
	MinPrice     decimal.Decimal  `json:"min_price"`
	MaxPrice     *decimal.Decimal `json:"max_price"`
	ProductCount int              `json:"product_count"`
	AveragePrice decimal.Decimal  `json:"average_price"`
	TotalStock   int64            `json:"total_stock"`
}

type CategoryStock struct {
	CategoryID      uint            `json:"category_id"`
	Category        string          `json:"category"`
	ProductCount    int             `json:"product_count"`
	TotalStock      int64           `json:"total_stock"`
	StockValue      decimal.Decimal `json:"stock_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

type DailySales struct {
	Date       string          `json:"date"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type SalesTrends struct {
	Days             int             `json:"days"`
	Daily            []DailySales    `json:"daily"`
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PreviousOrders   int             `json:"previous_orders"`
	PreviousRevenue  decimal.Decimal `json:"previous_revenue"`
	GrowthPercentage float64         `json:"growth_percentage"`
}

type BrandPerformance struct {
	Brand         string          `json:"brand"`
	ProductCount  int             `json:"product_count"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	AverageRating *float64        `json:"average_rating"`
	TotalStock    int64           `json:"total_stock"`
	UnitsSold     int64           `json:"units_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
}
