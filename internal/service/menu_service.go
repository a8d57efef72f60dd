package service

import (
	"context"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"

	"github.com/google/uuid"
)

// DTOs
type CreateMenuRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Price       int    `json:"price" binding:"required,gte=1"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdateMenuRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Price       *int    `json:"price" binding:"omitempty,gte=1"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

type MenuListFilter struct {
	IsAvailable *bool
	PriceMin    *int
	PriceMax    *int
	Search      string
}

type MenuListResponse struct {
	Menus []model.Menu `json:"menus"`
	Total int64        `json:"total"`
}

// DeleteMenuResult reports which delete branch was taken.
type DeleteMenuResult struct {
	SoftDeleted bool   `json:"soft_deleted"`
	Message     string `json:"message"`
}

// MenuService defines the business logic for the menu catalog.
type MenuService interface {
	// Customer-facing: availability is forced on unless explicitly filtered.
	ListCustomerMenus(ctx context.Context, filter MenuListFilter, offset, limit int) (*MenuListResponse, error)
	GetCustomerMenu(ctx context.Context, id uuid.UUID) (*model.Menu, error)

	// Store-facing: always scoped to the caller's store.
	ListStoreMenus(ctx context.Context, staff *model.User, filter MenuListFilter, offset, limit int) (*MenuListResponse, error)
	CreateMenu(ctx context.Context, staff *model.User, req CreateMenuRequest) (*model.Menu, error)
	UpdateMenu(ctx context.Context, staff *model.User, id uuid.UUID, req UpdateMenuRequest) (*model.Menu, error)
	DeleteMenu(ctx context.Context, staff *model.User, id uuid.UUID) (*DeleteMenuResult, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
}

func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) ListCustomerMenus(ctx context.Context, filter MenuListFilter, offset, limit int) (*MenuListResponse, error) {
	repoFilter := repository.MenuFilter{
		IsAvailable: filter.IsAvailable,
		PriceMin:    filter.PriceMin,
		PriceMax:    filter.PriceMax,
		Search:      filter.Search,
	}
	// Customers only ever see available menus.
	if repoFilter.IsAvailable == nil {
		available := true
		repoFilter.IsAvailable = &available
	}

	menus, total, err := s.menuRepo.List(ctx, nil, repoFilter, offset, limit)
	if err != nil {
		return nil, err
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	return &MenuListResponse{Menus: menus, Total: total}, nil
}

func (s *menuService) GetCustomerMenu(ctx context.Context, id uuid.UUID) (*model.Menu, error) {
	menu, err := s.menuRepo.GetAvailableByID(ctx, id)
	if err != nil {
		return nil, ErrMenuNotFound
	}
	return menu, nil
}

func (s *menuService) ListStoreMenus(ctx context.Context, staff *model.User, filter MenuListFilter, offset, limit int) (*MenuListResponse, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	repoFilter := repository.MenuFilter{
		IsAvailable: filter.IsAvailable,
		PriceMin:    filter.PriceMin,
		PriceMax:    filter.PriceMax,
		Search:      filter.Search,
	}
	menus, total, err := s.menuRepo.List(ctx, staff.StoreID, repoFilter, offset, limit)
	if err != nil {
		return nil, err
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	return &MenuListResponse{Menus: menus, Total: total}, nil
}

func (s *menuService) CreateMenu(ctx context.Context, staff *model.User, req CreateMenuRequest) (*model.Menu, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	menu := &model.Menu{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: available,
		StoreID:     *staff.StoreID,
	}
	if err := s.menuRepo.Create(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *menuService) UpdateMenu(ctx context.Context, staff *model.User, id uuid.UUID, req UpdateMenuRequest) (*model.Menu, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	menu, err := s.menuRepo.GetByID(ctx, id, staff.StoreID)
	if err != nil {
		return nil, ErrMenuNotFound
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Price != nil {
		menu.Price = *req.Price
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.ImageURL != nil {
		menu.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		menu.IsAvailable = *req.IsAvailable
	}

	if err := s.menuRepo.Update(ctx, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *menuService) DeleteMenu(ctx context.Context, staff *model.User, id uuid.UUID) (*DeleteMenuResult, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	menu, err := s.menuRepo.GetByID(ctx, id, staff.StoreID)
	if err != nil {
		return nil, ErrMenuNotFound
	}

	referenced, err := s.menuRepo.HasOrders(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	if referenced {
		// Orders keep their menu reference, so the row must survive.
		menu.IsAvailable = false
		if err := s.menuRepo.Update(ctx, menu); err != nil {
			return nil, err
		}
		return &DeleteMenuResult{SoftDeleted: true, Message: "Menu disabled due to existing orders"}, nil
	}

	if err := s.menuRepo.Delete(ctx, menu); err != nil {
		return nil, err
	}
	return &DeleteMenuResult{SoftDeleted: false, Message: "Menu deleted successfully"}, nil
}
