package model

// OrderSummary is the payload of GET /api/store/dashboard. All figures cover the
// current server-local day, scoped to one store, with cancelled orders excluded
// from revenue metrics but included in the counts.
type OrderSummary struct {
	TotalOrders         int                  `json:"total_orders"`
	PendingOrders       int                  `json:"pending_orders"`
	ReadyOrders         int                  `json:"ready_orders"`
	CompletedOrders     int                  `json:"completed_orders"`
	CancelledOrders     int                  `json:"cancelled_orders"`
	TotalSales          int                  `json:"total_sales"`
	TodayRevenue        int                  `json:"today_revenue"`
	AverageOrderValue   float64              `json:"average_order_value"`
	YesterdayComparison YesterdayComparison  `json:"yesterday_comparison"`
	PopularMenus        []PopularMenu        `json:"popular_menus"`
	HourlyOrders        [24]HourlyOrderCount `json:"hourly_orders"`
}

// YesterdayComparison holds day-over-day deltas. Percentages are 0.0 whenever
// the prior-day denominator is zero.
type YesterdayComparison struct {
	OrdersChange         int     `json:"orders_change"`
	OrdersChangePercent  float64 `json:"orders_change_percent"`
	RevenueChange        int     `json:"revenue_change"`
	RevenueChangePercent float64 `json:"revenue_change_percent"`
}

// PopularMenu ranks a menu by order count among today's non-cancelled orders.
// Ties are returned in whatever order the database groups them.
type PopularMenu struct {
	MenuID       string `json:"menu_id"`
	MenuName     string `json:"menu_name"`
	OrderCount   int    `json:"order_count"`
	TotalRevenue int    `json:"total_revenue"`
}

// HourlyOrderCount is one bucket of the 24-entry hourly histogram.
type HourlyOrderCount struct {
	Hour       int `json:"hour"`
	OrderCount int `json:"order_count"`
}

// WeeklySales covers the last 7 calendar days inclusive of today, oldest first.
type WeeklySales struct {
	Labels []string `json:"labels"` // YYYY-MM-DD
	Data   []int    `json:"data"`   // non-cancelled revenue per day
}

// DailySalesReport is one row of the sales report's per-day breakdown.
type DailySalesReport struct {
	Date        string `json:"date"` // YYYY-MM-DD
	TotalOrders int    `json:"total_orders"`
	TotalSales  int    `json:"total_sales"`
	PopularMenu string `json:"popular_menu,omitempty"`
}

// MenuSalesReport ranks one menu over the report range.
type MenuSalesReport struct {
	MenuID        string `json:"menu_id"`
	MenuName      string `json:"menu_name"`
	TotalQuantity int    `json:"total_quantity"`
	TotalSales    int    `json:"total_sales"`
}

// SalesReport is the payload of GET /api/store/reports/sales.
type SalesReport struct {
	Period       string             `json:"period"` // daily, weekly, monthly
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	DailyReports []DailySalesReport `json:"daily_reports"`
	MenuReports  []MenuSalesReport  `json:"menu_reports"`
	TotalSales   int                `json:"total_sales"`
	TotalOrders  int                `json:"total_orders"`
}
