package repository

import (
	"context"
	"strings"

	"github.com/ichi1107/bento-order-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuFilter narrows menu listings. Nil pointers mean "no filter".
type MenuFilter struct {
	IsAvailable *bool
	PriceMin    *int
	PriceMax    *int
	Search      string
}

type MenuRepository interface {
	Create(ctx context.Context, menu *model.Menu) error
	// GetByID is store-scoped when storeID is non-nil.
	GetByID(ctx context.Context, id uuid.UUID, storeID *uuid.UUID) (*model.Menu, error)
	GetAvailableByID(ctx context.Context, id uuid.UUID) (*model.Menu, error)
	List(ctx context.Context, storeID *uuid.UUID, filter MenuFilter, offset, limit int) ([]model.Menu, int64, error)
	Update(ctx context.Context, menu *model.Menu) error
	Delete(ctx context.Context, menu *model.Menu) error
	HasOrders(ctx context.Context, menuID uuid.UUID) (bool, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, menu *model.Menu) error {
	return GetDB(ctx, r.db).Create(menu).Error
}

func (r *menuRepository) GetByID(ctx context.Context, id uuid.UUID, storeID *uuid.UUID) (*model.Menu, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	var menu model.Menu
	if err := query.First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetAvailableByID(ctx context.Context, id uuid.UUID) (*model.Menu, error) {
	var menu model.Menu
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_available = ?", id, true).
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) List(ctx context.Context, storeID *uuid.UUID, filter MenuFilter, offset, limit int) ([]model.Menu, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Menu{})

	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var menus []model.Menu
	if err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&menus).Error; err != nil {
		return nil, 0, err
	}

	return menus, total, nil
}

func (r *menuRepository) Update(ctx context.Context, menu *model.Menu) error {
	return GetDB(ctx, r.db).Save(menu).Error
}

func (r *menuRepository) Delete(ctx context.Context, menu *model.Menu) error {
	return GetDB(ctx, r.db).Delete(menu).Error
}

func (r *menuRepository) HasOrders(ctx context.Context, menuID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("menu_id = ?", menuID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
