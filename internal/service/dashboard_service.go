package service

import (
	"context"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/shopspring/decimal"
)

// Sales report periods and their default lookback windows.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// DashboardService computes the store dashboard and sales reports. Everything
// is scoped to the caller's store; cancelled orders never count toward revenue.
type DashboardService interface {
	GetDashboard(ctx context.Context, staff *model.User) (*model.OrderSummary, error)
	GetWeeklySales(ctx context.Context, staff *model.User) (*model.WeeklySales, error)
	GetSalesReport(ctx context.Context, staff *model.User, period, startDate, endDate string) (*model.SalesReport, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

// dayBounds returns [00:00:00, 23:59:59.999999] of the day containing t,
// in server-local time.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Microsecond)
	return start, end
}

// ratio computes numerator/denominator rounded to 2 places, or 0.0 when the
// denominator is zero. Decimal division keeps the result finite and drift-free.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0.0
	}
	value, _ := decimal.NewFromInt(int64(numerator)).
		Div(decimal.NewFromInt(int64(denominator))).
		Round(2).Float64()
	return value
}

// percentChange computes (current-previous)/previous*100, or 0.0 when previous
// is zero.
func percentChange(current, previous int) float64 {
	if previous == 0 {
		return 0.0
	}
	value, _ := decimal.NewFromInt(int64(current - previous)).
		Div(decimal.NewFromInt(int64(previous))).
		Mul(decimal.NewFromInt(100)).
		Round(2).Float64()
	return value
}

func (s *dashboardService) GetDashboard(ctx context.Context, staff *model.User) (*model.OrderSummary, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	storeID := *staff.StoreID

	todayStart, todayEnd := dayBounds(time.Now())

	counts, err := s.repo.CountByStatus(ctx, storeID, todayStart, todayEnd)
	if err != nil {
		return nil, err
	}

	summary := &model.OrderSummary{
		PendingOrders:   counts[model.StatusPending],
		ReadyOrders:     counts[model.StatusReady],
		CompletedOrders: counts[model.StatusCompleted],
		CancelledOrders: counts[model.StatusCancelled],
	}
	for _, c := range counts {
		summary.TotalOrders += c
	}

	summary.TotalSales, err = s.repo.SumSales(ctx, storeID, todayStart, todayEnd)
	if err != nil {
		return nil, err
	}
	summary.TodayRevenue = summary.TotalSales
	summary.AverageOrderValue = ratio(summary.TotalSales, summary.TotalOrders-summary.CancelledOrders)

	yesterdayStart, yesterdayEnd := dayBounds(todayStart.AddDate(0, 0, -1))
	yesterdayOrders, err := s.repo.CountOrders(ctx, storeID, yesterdayStart, yesterdayEnd, false)
	if err != nil {
		return nil, err
	}
	yesterdaySales, err := s.repo.SumSales(ctx, storeID, yesterdayStart, yesterdayEnd)
	if err != nil {
		return nil, err
	}
	summary.YesterdayComparison = model.YesterdayComparison{
		OrdersChange:         summary.TotalOrders - yesterdayOrders,
		OrdersChangePercent:  percentChange(summary.TotalOrders, yesterdayOrders),
		RevenueChange:        summary.TotalSales - yesterdaySales,
		RevenueChangePercent: percentChange(summary.TotalSales, yesterdaySales),
	}

	summary.PopularMenus, err = s.repo.TopMenus(ctx, storeID, todayStart, todayEnd, 3)
	if err != nil {
		return nil, err
	}
	if summary.PopularMenus == nil {
		summary.PopularMenus = []model.PopularMenu{}
	}

	times, err := s.repo.OrderTimes(ctx, storeID, todayStart, todayEnd)
	if err != nil {
		return nil, err
	}
	for hour := 0; hour < 24; hour++ {
		summary.HourlyOrders[hour] = model.HourlyOrderCount{Hour: hour}
	}
	for _, t := range times {
		summary.HourlyOrders[t.Local().Hour()].OrderCount++
	}

	return summary, nil
}

func (s *dashboardService) GetWeeklySales(ctx context.Context, staff *model.User) (*model.WeeklySales, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	storeID := *staff.StoreID

	sales := &model.WeeklySales{
		Labels: make([]string, 0, 7),
		Data:   make([]int, 0, 7),
	}

	today := time.Now()
	for daysAgo := 6; daysAgo >= 0; daysAgo-- {
		dayStart, dayEnd := dayBounds(today.AddDate(0, 0, -daysAgo))
		revenue, err := s.repo.SumSales(ctx, storeID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		sales.Labels = append(sales.Labels, dayStart.Format("2006-01-02"))
		sales.Data = append(sales.Data, revenue)
	}

	return sales, nil
}

func (s *dashboardService) GetSalesReport(ctx context.Context, staff *model.User, period, startDate, endDate string) (*model.SalesReport, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	storeID := *staff.StoreID

	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		period = PeriodDaily
	}

	today := time.Now()
	if startDate == "" {
		lookback := 7
		switch period {
		case PeriodWeekly:
			lookback = 30
		case PeriodMonthly:
			lookback = 90
		}
		startDate = today.AddDate(0, 0, -lookback).Format("2006-01-02")
	}
	if endDate == "" {
		endDate = today.Format("2006-01-02")
	}

	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDay, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	_, end := dayBounds(endDay)

	report := &model.SalesReport{
		Period:       period,
		StartDate:    startDate,
		EndDate:      endDate,
		DailyReports: []model.DailySalesReport{},
	}

	for day := start; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		dayStart, dayEnd := dayBounds(day)

		count, err := s.repo.CountOrders(ctx, storeID, dayStart, dayEnd, true)
		if err != nil {
			return nil, err
		}
		sales, err := s.repo.SumSales(ctx, storeID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		daily := model.DailySalesReport{
			Date:        day.Format("2006-01-02"),
			TotalOrders: count,
			TotalSales:  sales,
		}
		top, err := s.repo.TopMenus(ctx, storeID, dayStart, dayEnd, 1)
		if err != nil {
			return nil, err
		}
		if len(top) > 0 {
			daily.PopularMenu = top[0].MenuName
		}
		report.DailyReports = append(report.DailyReports, daily)
	}

	report.MenuReports, err = s.repo.MenuSales(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}
	if report.MenuReports == nil {
		report.MenuReports = []model.MenuSalesReport{}
	}

	report.TotalOrders, err = s.repo.CountOrders(ctx, storeID, start, end, true)
	if err != nil {
		return nil, err
	}
	report.TotalSales, err = s.repo.SumSales(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}

	return report, nil
}
