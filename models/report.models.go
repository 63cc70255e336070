package models

// DashboardStats are the headline figures of the dashboard
type DashboardStats struct {
	TotalSales        int64 `json:"totalSales"`
	TotalRevenue      int64 `json:"totalRevenue"`
	TotalTransactions int   `json:"totalTransactions"`
	AverageTicket     int64 `json:"averageTicket"`
	TotalStockValue   int64 `json:"totalStockValue"`
	LowStockCount     int   `json:"lowStockCount"`
	OutOfStockCount   int   `json:"outOfStockCount"`
	TotalProducts     int   `json:"totalProducts"`
}

// DaySales aggregates the sales of one UTC day
type DaySales struct {
	Date         string `json:"date"`
	Sales        int64  `json:"sales"`
	Transactions int    `json:"transactions"`
}

// DashboardSummary is the payload of the dashboard endpoint
type DashboardSummary struct {
	Stats       DashboardStats `json:"stats"`
	SalesByDay  []DaySales     `json:"salesByDay"`
	LastUpdated string         `json:"lastUpdated"`
}

// ProductSales aggregates the sold quantity and revenue of one product
type ProductSales struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

// CategorySales aggregates sales per product category
type CategorySales struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
	Quantity int    `json:"quantity"`
}

// SalesReport is the payload of the sales report endpoint
type SalesReport struct {
	Period            string          `json:"period"`
	SalesByDay        []DaySales      `json:"salesByDay"`
	TopProducts       []ProductSales  `json:"topProducts"`
	CategorySales     []CategorySales `json:"categorySales"`
	TotalRevenue      int64           `json:"totalRevenue"`
	TotalTransactions int             `json:"totalTransactions"`
}

// StockReport is the payload of the stock report endpoint
type StockReport struct {
	Items            []StockItem `json:"items"`
	LowStockCount    int         `json:"lowStockCount"`
	OutOfStockCount  int         `json:"outOfStockCount"`
	TotalValue       int64       `json:"totalValue"`
	TotalRetailValue int64       `json:"totalRetailValue"`
}
