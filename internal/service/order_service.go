package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ichi1107/bento-order-system/internal/model"
	"github.com/ichi1107/bento-order-system/internal/repository"
	"github.com/ichi1107/bento-order-system/internal/statemachine"
	ws "github.com/ichi1107/bento-order-system/internal/websocket"

	"github.com/google/uuid"
)

// DTOs
type CreateOrderRequest struct {
	MenuID       uuid.UUID `json:"menu_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,gte=1,lte=10"`
	DeliveryTime string    `json:"delivery_time" binding:"omitempty,datetime=15:04"`
	Notes        string    `json:"notes" binding:"omitempty,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StoreOrderFilter carries the store-facing listing filters.
type StoreOrderFilter struct {
	Statuses  []string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Sort      string
}

// OrderUserInfo is the purchaser block included in store-facing responses.
type OrderUserInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type OrderResponse struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	MenuID       uuid.UUID      `json:"menu_id"`
	StoreID      uuid.UUID      `json:"store_id"`
	Quantity     int            `json:"quantity"`
	TotalPrice   int            `json:"total_price"`
	Status       string         `json:"status"`
	DeliveryTime string         `json:"delivery_time,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	OrderedAt    time.Time      `json:"ordered_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Menu         model.Menu     `json:"menu"`
	User         *OrderUserInfo `json:"user,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

// OrderService defines the business logic of the order lifecycle.
type OrderService interface {
	CreateOrder(ctx context.Context, customer *model.User, req CreateOrderRequest) (*OrderResponse, error)
	ListMyOrders(ctx context.Context, customer *model.User, status string, offset, limit int) (*OrderListResponse, error)
	GetMyOrder(ctx context.Context, customer *model.User, orderID uuid.UUID) (*OrderResponse, error)
	CancelOrder(ctx context.Context, customer *model.User, orderID uuid.UUID) (*OrderResponse, error)

	ListStoreOrders(ctx context.Context, staff *model.User, filter StoreOrderFilter, offset, limit int) (*OrderListResponse, error)
	UpdateOrderStatus(ctx context.Context, staff *model.User, orderID uuid.UUID, newStatus string) (*OrderResponse, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewOrderService(orderRepo repository.OrderRepository, menuRepo repository.MenuRepository, txManager repository.TransactionManager, hub *ws.Hub) OrderService {
	return &orderService{orderRepo: orderRepo, menuRepo: menuRepo, txManager: txManager, hub: hub}
}

func mapOrder(order *model.Order, includeUser bool) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		UserID:       order.UserID,
		MenuID:       order.MenuID,
		StoreID:      order.StoreID,
		Quantity:     order.Quantity,
		TotalPrice:   order.TotalPrice,
		Status:       order.Status,
		DeliveryTime: order.DeliveryTime,
		Notes:        order.Notes,
		OrderedAt:    order.OrderedAt,
		UpdatedAt:    order.UpdatedAt,
		Menu:         order.Menu,
	}
	if includeUser {
		resp.User = &OrderUserInfo{
			ID:       order.User.ID,
			Username: order.User.Username,
			FullName: order.User.FullName,
			Email:    order.User.Email,
		}
	}
	return resp
}

func (s *orderService) notify(storeID uuid.UUID, event string, order *model.Order) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastOrderEvent(storeID, ws.OrderEvent{
		Event: event,
		Data: map[string]interface{}{
			"order_id":    order.ID.String(),
			"status":      order.Status,
			"total_price": order.TotalPrice,
		},
	})
}

func (s *orderService) CreateOrder(ctx context.Context, customer *model.User, req CreateOrderRequest) (*OrderResponse, error) {
	menu, err := s.menuRepo.GetAvailableByID(ctx, req.MenuID)
	if err != nil {
		return nil, ErrMenuNotFound
	}

	order := &model.Order{
		UserID:       customer.ID,
		MenuID:       menu.ID,
		StoreID:      menu.StoreID, // store scope always follows the menu
		Quantity:     req.Quantity,
		TotalPrice:   menu.Price * req.Quantity, // snapshot, immutable afterwards
		Status:       model.StatusPending,
		DeliveryTime: req.DeliveryTime,
		Notes:        req.Notes,
	}

	if err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.orderRepo.Create(txCtx, order)
	}); err != nil {
		return nil, err
	}

	order.Menu = *menu
	s.notify(order.StoreID, "order_created", order)

	resp := mapOrder(order, false)
	return &resp, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, customer *model.User, status string, offset, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orderRepo.ListByUser(ctx, customer.ID, status, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &OrderListResponse{Orders: make([]OrderResponse, 0, len(orders)), Total: total}
	for i := range orders {
		resp.Orders = append(resp.Orders, mapOrder(&orders[i], false))
	}
	return resp, nil
}

func (s *orderService) GetMyOrder(ctx context.Context, customer *model.User, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID, &customer.ID, nil)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	resp := mapOrder(order, false)
	return &resp, nil
}

func (s *orderService) CancelOrder(ctx context.Context, customer *model.User, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID, &customer.ID, nil)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if err := statemachine.CanTransition(order.Status, model.StatusCancelled, statemachine.ActorCustomer); err != nil {
		return nil, ErrCancelNotAllowed
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, model.StatusCancelled); err != nil {
		return nil, err
	}
	order.Status = model.StatusCancelled
	order.UpdatedAt = time.Now()

	s.notify(order.StoreID, "order_status_changed", order)

	resp := mapOrder(order, false)
	return &resp, nil
}

func (s *orderService) ListStoreOrders(ctx context.Context, staff *model.User, filter StoreOrderFilter, offset, limit int) (*OrderListResponse, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}

	repoFilter := repository.OrderFilter{
		Statuses:  filter.Statuses,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Search:    filter.Search,
		Sort:      filter.Sort,
	}
	orders, total, err := s.orderRepo.ListByStore(ctx, *staff.StoreID, repoFilter, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &OrderListResponse{Orders: make([]OrderResponse, 0, len(orders)), Total: total}
	for i := range orders {
		resp.Orders = append(resp.Orders, mapOrder(&orders[i], true))
	}
	return resp, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, staff *model.User, orderID uuid.UUID, newStatus string) (*OrderResponse, error) {
	if staff.StoreID == nil {
		return nil, ErrNoStore
	}
	if !model.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID, nil, staff.StoreID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if err := statemachine.CanTransition(order.Status, newStatus, statemachine.ActorStore); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus
	order.UpdatedAt = time.Now()

	s.notify(order.StoreID, "order_status_changed", order)

	resp := mapOrder(order, true)
	return &resp, nil
}
