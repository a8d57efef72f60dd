package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sort keys accepted by the store-facing order listing.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceHigh = "price_high"
	SortPriceLow  = "price_low"
)

// OrderFilter narrows the store-facing order listing.
type OrderFilter struct {
	Statuses  []string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive (already pushed to end of day by the caller)
	Search    string     // purchaser full name/username or menu name
	Sort      string
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	// GetByID scopes by owner when userID is non-nil and by store when storeID is
	// non-nil; out-of-scope rows are indistinguishable from missing ones.
	GetByID(ctx context.Context, id uuid.UUID, userID, storeID *uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]model.Order, int64, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, filter OrderFilter, offset, limit int) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID, userID, storeID *uuid.UUID) (*model.Order, error) {
	query := GetDB(ctx, r.db).Preload("Menu").Preload("User").Where("id = ?", id)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	var order model.Order
	if err := query.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	if err := query.
		Preload("Menu").
		Order("ordered_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) ListByStore(ctx context.Context, storeID uuid.UUID, filter OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("orders.store_id = ?", storeID)

	if len(filter.Statuses) > 0 {
		query = query.Where("orders.status IN ?", filter.Statuses)
	}
	if filter.StartDate != nil {
		query = query.Where("orders.ordered_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("orders.ordered_at <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Joins("JOIN menus ON menus.id = orders.menu_id").
			Where("LOWER(users.full_name) LIKE ? OR LOWER(users.username) LIKE ? OR LOWER(menus.name) LIKE ?",
				pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case SortOldest:
		query = query.Order("orders.ordered_at ASC")
	case SortPriceHigh:
		query = query.Order("orders.total_price DESC")
	case SortPriceLow:
		query = query.Order("orders.total_price ASC")
	default: // SortNewest
		query = query.Order("orders.ordered_at DESC")
	}

	var orders []model.Order
	if err := query.
		Preload("Menu").
		Preload("User").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}
