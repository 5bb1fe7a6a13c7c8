package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent is published after an order commits. Consumers run the
// best-effort side effects (account reconciliation, confirmation email) off
// the request path.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID         int64           `json:"order_id"`
	Reference       string          `json:"reference"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	Total           string          `json:"total"`
	Currency        string          `json:"currency"`
	ShippingDetails JSONMap         `json:"shipping_details"`
	Items           []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent is published when staff move an order through the
// status graph.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
}
