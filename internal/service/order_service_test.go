package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	nextID int64

	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
		nextID: 1,
	}
}

func (f *fakeOrderStore) addOrder(order *models.Order) *models.Order {
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	f.items[order.ID] = order.Items
	return order
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.addOrder(order)
	return nil
}

func (f *fakeOrderStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.IdempotencyKey != nil && *order.IdempotencyKey == key {
			cp := *order
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderStore) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderStore) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.CustomerEmail != nil && strings.EqualFold(*order.CustomerEmail, email) {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID int64, from, to string) (bool, error) {
	order, ok := f.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

type fakePublisher struct {
	created       []*models.OrderCreatedEvent
	statusChanged []*models.OrderStatusChangedEvent
	publishErr    error
}

func (f *fakePublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakePublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.statusChanged = append(f.statusChanged, event)
	return nil
}

func validCreateRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:  "Laura Gomez",
		CustomerEmail: "laura@example.com",
		Total:         decimal.NewFromInt(50000),
		ShippingDetails: models.JSONMap{
			"address": "Calle 10 #5-25",
			"city":    "Bogota",
		},
		Items: []OrderItemRequest{
			{Name: "Hoodie Oversize", Price: decimal.NewFromInt(50000), Quantity: 1, Size: "M"},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	fs := newFakeOrderStore()
	pub := &fakePublisher{}
	svc := NewOrderService(fs, pub, nil)

	order, err := svc.CreateOrder(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.NotEmpty(t, order.Reference)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, order.CustomerEmail)
	assert.Equal(t, "laura@example.com", *order.CustomerEmail)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Hoodie Oversize", order.Items[0].Name)

	require.Len(t, pub.created, 1)
	assert.Equal(t, order.ID, pub.created[0].OrderID)
	assert.Equal(t, "laura@example.com", pub.created[0].CustomerEmail)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakePublisher{}, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(req *CreateOrderRequest)
	}{
		{"no items", func(req *CreateOrderRequest) { req.Items = nil }},
		{"item without name", func(req *CreateOrderRequest) { req.Items[0].Name = "  " }},
		{"zero quantity", func(req *CreateOrderRequest) { req.Items[0].Quantity = 0 }},
		{"negative price", func(req *CreateOrderRequest) { req.Items[0].Price = decimal.NewFromInt(-1) }},
		{"negative total", func(req *CreateOrderRequest) { req.Total = decimal.NewFromInt(-1) }},
		{"malformed email", func(req *CreateOrderRequest) { req.CustomerEmail = "not-an-email" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			_, err := svc.CreateOrder(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrderGuestWithoutEmail(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakePublisher{}, nil)

	req := validCreateRequest()
	req.CustomerName = ""
	req.CustomerEmail = ""

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, order.CustomerName)
	assert.Nil(t, order.CustomerEmail)
	assert.Equal(t, "", order.Email())
}

func TestCreateOrderIdempotency(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, &fakePublisher{}, nil)
	ctx := context.Background()

	req := validCreateRequest()
	req.IdempotencyKey = "req-abc"

	first, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)

	second, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fs.orders, 1)
}

func TestCreateOrderSucceedsWhenPublishFails(t *testing.T) {
	fs := newFakeOrderStore()
	pub := &fakePublisher{publishErr: errors.New("broker down")}
	svc := NewOrderService(fs, pub, nil)

	order, err := svc.CreateOrder(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestCreateOrderStoreError(t *testing.T) {
	fs := newFakeOrderStore()
	fs.createErr = errors.New("connection refused")
	svc := NewOrderService(fs, &fakePublisher{}, nil)

	_, err := svc.CreateOrder(context.Background(), validCreateRequest())
	assert.Error(t, err)
}

func seedOrder(fs *fakeOrderStore, email string) *models.Order {
	order := &models.Order{
		Reference: "ref-1",
		Status:    models.OrderStatusProcessing,
		Total:     decimal.NewFromInt(50000),
	}
	if email != "" {
		order.CustomerEmail = &email
	}
	return fs.addOrder(order)
}

func TestGetOrderAccess(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, &fakePublisher{}, nil)
	ctx := context.Background()
	order := seedOrder(fs, "laura@example.com")

	// Staff sees any order.
	got, err := svc.GetOrder(ctx, order.ID, models.Caller{Email: "admin@goustty.com", Staff: true})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// The owner matches case-insensitively.
	got, err = svc.GetOrder(ctx, order.ID, models.Caller{Email: "LAURA@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// A different account gets the same error as a missing order.
	_, err = svc.GetOrder(ctx, order.ID, models.Caller{Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)

	// Anonymous callers get nothing.
	_, err = svc.GetOrder(ctx, order.ID, models.Caller{})
	assert.ErrorIs(t, err, ErrNotFound)

	// Missing order is indistinguishable from denied access.
	_, err = svc.GetOrder(ctx, 9999, models.Caller{Staff: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersScoping(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, &fakePublisher{}, nil)
	ctx := context.Background()

	seedOrder(fs, "laura@example.com")
	seedOrder(fs, "pedro@example.com")
	seedOrder(fs, "")

	staffOrders, err := svc.ListOrders(ctx, models.Caller{Staff: true})
	require.NoError(t, err)
	assert.Len(t, staffOrders, 3)

	own, err := svc.ListOrders(ctx, models.Caller{Email: "Laura@example.com"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "laura@example.com", own[0].Email())

	anon, err := svc.ListOrders(ctx, models.Caller{})
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestUpdateStatusTransitions(t *testing.T) {
	staff := models.Caller{Email: "admin@goustty.com", Staff: true}

	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"processing to shipped", models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{"processing to cancelled", models.OrderStatusProcessing, models.OrderStatusCancelled, true},
		{"shipped to delivered", models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{"processing to delivered", models.OrderStatusProcessing, models.OrderStatusDelivered, false},
		{"shipped to cancelled", models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{"delivered is terminal", models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{"cancelled is terminal", models.OrderStatusCancelled, models.OrderStatusProcessing, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := newFakeOrderStore()
			svc := NewOrderService(fs, &fakePublisher{}, nil)
			order := seedOrder(fs, "laura@example.com")
			fs.orders[order.ID].Status = tc.from

			updated, err := svc.UpdateStatus(context.Background(), order.ID, tc.to, staff)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, &fakePublisher{}, nil)
	ctx := context.Background()
	order := seedOrder(fs, "laura@example.com")

	// The order's owner still cannot change its status.
	_, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, models.Caller{Email: "laura@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, models.Caller{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, &fakePublisher{}, nil)
	order := seedOrder(fs, "laura@example.com")

	_, err := svc.UpdateStatus(context.Background(), order.ID, "Refunded", models.Caller{Staff: true})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	fs := newFakeOrderStore()
	pub := &fakePublisher{}
	svc := NewOrderService(fs, pub, nil)
	order := seedOrder(fs, "laura@example.com")

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped, models.Caller{Staff: true})
	require.NoError(t, err)

	require.Len(t, pub.statusChanged, 1)
	assert.Equal(t, models.OrderStatusProcessing, pub.statusChanged[0].OldStatus)
	assert.Equal(t, models.OrderStatusShipped, pub.statusChanged[0].NewStatus)
}
