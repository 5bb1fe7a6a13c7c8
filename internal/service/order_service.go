package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order ledger needs.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, from, to string) (bool, error)
}

// OrderEventPublisher publishes post-commit order events.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Status transition graph. Anything not listed is rejected.
var statusTransitions = map[string][]string{
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

func transitionAllowed(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService owns order creation, caller-scoped reads, and the staff
// status updates.
type OrderService struct {
	store     OrderStore
	publisher OrderEventPublisher
	hooks     *PostOrderHooks
	logger    *zap.Logger
}

// NewOrderService creates a new order service. hooks is the inline fallback
// for the post-commit side effects when publishing fails; it may be nil.
func NewOrderService(store OrderStore, publisher OrderEventPublisher, hooks *PostOrderHooks) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		hooks:     hooks,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest is the order-creation payload. The total is declared by
// the caller and stored verbatim; it is not re-derived from item prices.
type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	Total           decimal.Decimal    `json:"total"`
	ShippingDetails models.JSONMap     `json:"shippingDetails"`
	Items           []OrderItemRequest `json:"items"`
	IdempotencyKey  string             `json:"-"`
}

// OrderItemRequest is a line-item snapshot supplied at purchase time.
type OrderItemRequest struct {
	ProductID *int64          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
}

func (req *CreateOrderRequest) validate() error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d is missing a name", ErrValidation, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be at least 1", ErrValidation, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d price must not be negative", ErrValidation, i)
		}
	}
	if req.Total.IsNegative() {
		return fmt.Errorf("%w: total must not be negative", ErrValidation)
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" && !strings.Contains(email, "@") {
		return fmt.Errorf("%w: customerEmail is malformed", ErrValidation)
	}
	return nil
}

// CreateOrder validates and persists an order with its item snapshots as one
// atomic unit, then hands the post-commit side effects (account
// reconciliation, confirmation email) to the event pipeline. The canonical
// order view is returned regardless of what happens to those side effects.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := req.validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("order_id", existing.ID))
			return s.loadItems(ctx, existing)
		}
	}

	order := &models.Order{
		Reference:       uuid.New().String(),
		Status:          models.OrderStatusProcessing,
		Total:           req.Total,
		ShippingDetails: req.ShippingDetails,
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		order.CustomerName = &name
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		order.CustomerEmail = &email
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}

	order.Items = make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	start := time.Now()
	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	util.OrderCreateLatency.Observe(time.Since(start).Seconds())
	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("reference", order.Reference))

	s.dispatchOrderCreated(ctx, order)

	return order, nil
}

// dispatchOrderCreated hands the side effects to the event pipeline. When
// publishing fails the hooks run inline in the background instead; either
// way the failure never reaches the caller.
func (s *OrderService) dispatchOrderCreated(ctx context.Context, order *models.Order) {
	event := newOrderCreatedEvent(order)

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event, running hooks inline",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		if s.hooks != nil {
			go func() {
				hookCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				s.hooks.Run(hookCtx, event)
			}()
		}
	}
}

func newOrderCreatedEvent(order *models.Order) *models.OrderCreatedEvent {
	items := make([]models.OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemData{
			Name:     item.Name,
			Image:    item.Image,
			Price:    item.Price.String(),
			Quantity: item.Quantity,
			Size:     item.Size,
		})
	}

	var customerName string
	if order.CustomerName != nil {
		customerName = *order.CustomerName
	}

	return &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:         order.ID,
		Reference:       order.Reference,
		CustomerName:    customerName,
		CustomerEmail:   order.Email(),
		Total:           order.Total.String(),
		ShippingDetails: order.ShippingDetails,
		Items:           items,
	}
}

// GetOrder returns the order when the caller is staff or an authenticated
// account whose email matches case-insensitively. Everyone else gets
// ErrNotFound whether or not the order exists.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64, caller models.Caller) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !caller.Staff {
		if caller.Email == "" || !strings.EqualFold(order.Email(), caller.Email) {
			return nil, ErrNotFound
		}
	}

	return s.loadItems(ctx, order)
}

// ListOrders returns all orders for staff, the caller's own orders for an
// authenticated account, and an empty result for anonymous callers. Ordered
// by creation time descending.
func (s *OrderService) ListOrders(ctx context.Context, caller models.Caller) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	var (
		orders []models.Order
		err    error
	)
	switch {
	case caller.Staff:
		orders, err = s.store.ListOrders(ctx)
	case caller.Email != "":
		orders, err = s.store.ListOrdersByEmail(ctx, caller.Email)
	default:
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.store.GetOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateStatus moves an order through the status graph. Staff only.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string, caller models.Caller) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !caller.Staff {
		return nil, ErrForbidden
	}
	if !models.ValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, order.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		// Lost a race with a concurrent staff update.
		return nil, fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
	}

	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", newStatus))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		OldStatus: order.Status,
		NewStatus: newStatus,
	}
	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	order.Status = newStatus
	return s.loadItems(ctx, order)
}

func (s *OrderService) loadItems(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}
