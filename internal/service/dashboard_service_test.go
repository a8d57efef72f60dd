package service

import (
	"context"
	"testing"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB) DashboardService {
	return NewDashboardService(repository.NewDashboardRepository(db))
}

func TestGetDashboard_ScopedToStore(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	storeA := createStore(t, db, "store-a")
	storeB := createStore(t, db, "store-b")
	staffA := createStaff(t, db, "staff-a", storeA.ID)
	staffB := createStaff(t, db, "staff-b", storeB.ID)
	customer := createCustomer(t, db, "alice")
	menuA := createMenu(t, db, storeA.ID, "karaage bento", 500)
	menuB := createMenu(t, db, storeB.ID, "shake bento", 600)

	now := time.Now()
	for i := 0; i < 3; i++ {
		createOrderAt(t, db, customer, menuA, 1, model.StatusCompleted, now)
	}
	for i := 0; i < 5; i++ {
		createOrderAt(t, db, customer, menuB, 1, model.StatusCompleted, now)
	}

	summaryA, err := svc.GetDashboard(ctx, staffA)
	require.NoError(t, err)
	assert.Equal(t, 3, summaryA.TotalOrders)
	assert.Equal(t, 1500, summaryA.TotalSales)
	assert.Equal(t, 1500, summaryA.TodayRevenue)
	assert.InDelta(t, 500.0, summaryA.AverageOrderValue, 0.001)

	summaryB, err := svc.GetDashboard(ctx, staffB)
	require.NoError(t, err)
	assert.Equal(t, 5, summaryB.TotalOrders)
	assert.Equal(t, 3000, summaryB.TotalSales)
}

func TestGetDashboard_AllCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)

	now := time.Now()
	createOrderAt(t, db, customer, menu, 1, model.StatusCancelled, now)
	createOrderAt(t, db, customer, menu, 2, model.StatusCancelled, now)

	summary, err := svc.GetDashboard(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 2, summary.CancelledOrders)
	assert.Equal(t, 0, summary.TotalSales)
	assert.Equal(t, 0.0, summary.AverageOrderValue)
	assert.Empty(t, summary.PopularMenus)
}

func TestGetDashboard_HourlyHistogramHas24Buckets(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)

	noon := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 12, 30, 0, 0, time.Local)
	createOrderAt(t, db, customer, menu, 1, model.StatusPending, noon)
	createOrderAt(t, db, customer, menu, 1, model.StatusPending, noon)

	summary, err := svc.GetDashboard(ctx, staff)
	require.NoError(t, err)

	require.Len(t, summary.HourlyOrders, 24)
	total := 0
	for hour, bucket := range summary.HourlyOrders {
		assert.Equal(t, hour, bucket.Hour)
		total += bucket.OrderCount
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, summary.HourlyOrders[12].OrderCount)
}

func TestGetDashboard_YesterdayComparison(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	for i := 0; i < 3; i++ {
		createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now)
	}
	for i := 0; i < 2; i++ {
		createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, yesterday)
	}

	summary, err := svc.GetDashboard(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.YesterdayComparison.OrdersChange)
	assert.InDelta(t, 50.0, summary.YesterdayComparison.OrdersChangePercent, 0.001)
	assert.Equal(t, 500, summary.YesterdayComparison.RevenueChange)
	assert.InDelta(t, 50.0, summary.YesterdayComparison.RevenueChangePercent, 0.001)
}

func TestGetDashboard_ZeroYesterdayMeansZeroPercent(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)
	createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, time.Now())

	summary, err := svc.GetDashboard(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.YesterdayComparison.OrdersChange)
	assert.Equal(t, 0.0, summary.YesterdayComparison.OrdersChangePercent)
	assert.Equal(t, 0.0, summary.YesterdayComparison.RevenueChangePercent)
}

func TestGetDashboard_PopularMenusTopThree(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")

	now := time.Now()
	menus := []*model.Menu{
		createMenu(t, db, store.ID, "first", 500),
		createMenu(t, db, store.ID, "second", 400),
		createMenu(t, db, store.ID, "third", 300),
		createMenu(t, db, store.ID, "fourth", 200),
	}
	for i, menu := range menus {
		for n := 0; n < len(menus)-i; n++ {
			createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now)
		}
	}

	summary, err := svc.GetDashboard(ctx, staff)
	require.NoError(t, err)
	require.Len(t, summary.PopularMenus, 3)
	assert.Equal(t, "first", summary.PopularMenus[0].MenuName)
	assert.Equal(t, 4, summary.PopularMenus[0].OrderCount)
	assert.Equal(t, 2000, summary.PopularMenus[0].TotalRevenue)
	assert.Equal(t, "second", summary.PopularMenus[1].MenuName)
	assert.Equal(t, "third", summary.PopularMenus[2].MenuName)
}

func TestGetDashboard_NoStore(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)

	orphan := &model.User{Role: model.AccountTypeStore}
	_, err := svc.GetDashboard(context.Background(), orphan)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestGetWeeklySales_SevenDaysZeroFilled(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)

	now := time.Now()
	// today: 1000, three days ago: 500 plus one cancelled, and one order
	// outside the 7-day window entirely.
	createOrderAt(t, db, customer, menu, 2, model.StatusCompleted, now)
	createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now.AddDate(0, 0, -3))
	createOrderAt(t, db, customer, menu, 1, model.StatusCancelled, now.AddDate(0, 0, -3))
	createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now.AddDate(0, 0, -9))

	sales, err := svc.GetWeeklySales(ctx, staff)
	require.NoError(t, err)
	require.Len(t, sales.Labels, 7)
	require.Len(t, sales.Data, 7)

	assert.Equal(t, now.AddDate(0, 0, -6).Format("2006-01-02"), sales.Labels[0])
	assert.Equal(t, now.Format("2006-01-02"), sales.Labels[6])
	assert.Equal(t, 1000, sales.Data[6])
	assert.Equal(t, 500, sales.Data[3])
	assert.Equal(t, 0, sales.Data[0])
}

func TestGetSalesReport_ExcludesCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)
	customer := createCustomer(t, db, "alice")
	menu := createMenu(t, db, store.ID, "karaage bento", 500)

	now := time.Now()
	createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now)
	createOrderAt(t, db, customer, menu, 1, model.StatusCompleted, now.AddDate(0, 0, -1))
	createOrderAt(t, db, customer, menu, 3, model.StatusCancelled, now)

	start := now.AddDate(0, 0, -1).Format("2006-01-02")
	end := now.Format("2006-01-02")
	report, err := svc.GetSalesReport(ctx, staff, PeriodDaily, start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, 1000, report.TotalSales)
	require.Len(t, report.DailyReports, 2)
	assert.Equal(t, start, report.DailyReports[0].Date)
	assert.Equal(t, 1, report.DailyReports[0].TotalOrders)
	assert.Equal(t, "karaage bento", report.DailyReports[0].PopularMenu)

	require.Len(t, report.MenuReports, 1)
	assert.Equal(t, 2, report.MenuReports[0].TotalQuantity)
	assert.Equal(t, 1000, report.MenuReports[0].TotalSales)
}

func TestGetSalesReport_BadDates(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)

	store := createStore(t, db, "bento-ya")
	staff := createStaff(t, db, "staff", store.ID)

	_, err := svc.GetSalesReport(context.Background(), staff, PeriodDaily, "31-08-2026", "")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
