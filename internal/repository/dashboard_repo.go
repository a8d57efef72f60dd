package repository

import (
	"context"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardRepository runs the aggregation queries behind the dashboard and the
// sales report. Every method takes a storeID; nothing here may query across
// tenants.
type DashboardRepository interface {
	CountByStatus(ctx context.Context, storeID uuid.UUID, start, end time.Time) (map[string]int, error)
	CountOrders(ctx context.Context, storeID uuid.UUID, start, end time.Time, excludeCancelled bool) (int, error)
	SumSales(ctx context.Context, storeID uuid.UUID, start, end time.Time) (int, error)
	TopMenus(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]model.PopularMenu, error)
	// OrderTimes returns the ordered_at timestamps within the range; the caller
	// folds them into an hourly histogram (hour extraction is not portable SQL).
	OrderTimes(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]time.Time, error)
	MenuSales(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.MenuSalesReport, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) inRange(ctx context.Context, storeID uuid.UUID, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("store_id = ? AND ordered_at >= ? AND ordered_at <= ?", storeID, start, end)
}

func (r *dashboardRepository) CountByStatus(ctx context.Context, storeID uuid.UUID, start, end time.Time) (map[string]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	if err := r.inRange(ctx, storeID, start, end).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) CountOrders(ctx context.Context, storeID uuid.UUID, start, end time.Time, excludeCancelled bool) (int, error) {
	query := r.inRange(ctx, storeID, start, end)
	if excludeCancelled {
		query = query.Where("status <> ?", model.StatusCancelled)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *dashboardRepository) SumSales(ctx context.Context, storeID uuid.UUID, start, end time.Time) (int, error) {
	var result struct {
		Total int
	}
	if err := r.inRange(ctx, storeID, start, end).
		Where("status <> ?", model.StatusCancelled).
		Select("COALESCE(SUM(total_price), 0) as total").
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

func (r *dashboardRepository) TopMenus(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]model.PopularMenu, error) {
	var rankings []model.PopularMenu
	if err := r.db.WithContext(ctx).Table("orders").
		Select("menus.id as menu_id, menus.name as menu_name, COUNT(orders.id) as order_count, SUM(orders.total_price) as total_revenue").
		Joins("JOIN menus ON menus.id = orders.menu_id").
		Where("orders.store_id = ? AND orders.ordered_at >= ? AND orders.ordered_at <= ? AND orders.status <> ?",
			storeID, start, end, model.StatusCancelled).
		Group("menus.id, menus.name").
		Order("order_count DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, err
	}
	return rankings, nil
}

func (r *dashboardRepository) OrderTimes(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.inRange(ctx, storeID, start, end).
		Pluck("ordered_at", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

func (r *dashboardRepository) MenuSales(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]model.MenuSalesReport, error) {
	var reports []model.MenuSalesReport
	if err := r.db.WithContext(ctx).Table("orders").
		Select("menus.id as menu_id, menus.name as menu_name, SUM(orders.quantity) as total_quantity, SUM(orders.total_price) as total_sales").
		Joins("JOIN menus ON menus.id = orders.menu_id").
		Where("orders.store_id = ? AND orders.ordered_at >= ? AND orders.ordered_at <= ? AND orders.status <> ?",
			storeID, start, end, model.StatusCancelled).
		Group("menus.id, menus.name").
		Order("total_sales DESC").
		Scan(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
