package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields go over the wire as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Order statuses
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the persisted order header. The total is a snapshot taken at
// creation time and is never recomputed from current product prices.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	Reference       string          `db:"reference" json:"reference"`
	Status          string          `db:"status" json:"status"`
	Total           decimal.Decimal `db:"total" json:"total"`
	CustomerName    *string         `db:"customer_name" json:"customerName"`
	CustomerEmail   *string         `db:"customer_email" json:"customerEmail"`
	ShippingDetails JSONMap         `db:"shipping_details" json:"shippingDetails"`
	IdempotencyKey  *string         `db:"idempotency_key" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"date"`
	UpdatedAt       time.Time       `db:"updated_at" json:"-"`
	Items           []OrderItem     `db:"-" json:"items"`
}

// Email returns the customer email or "" when the order was placed without one.
func (o *Order) Email() string {
	if o.CustomerEmail == nil {
		return ""
	}
	return *o.CustomerEmail
}

// OrderItem carries a purchase-time snapshot of the product fields so later
// catalog edits cannot alter historical orders. ProductID is a weak reference
// kept for analytics and may dangle after the product is removed.
type OrderItem struct {
	ID        int64           `db:"id" json:"-"`
	OrderID   int64           `db:"order_id" json:"-"`
	ProductID *int64          `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	Image     string          `db:"image" json:"image"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Size      string          `db:"size" json:"size"`
	Color     string          `db:"color" json:"color,omitempty"`
}

// Product represents a catalog product.
type Product struct {
	ID             int64            `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Price          decimal.Decimal  `db:"price" json:"price"`
	OriginalPrice  *decimal.Decimal `db:"original_price" json:"originalPrice"`
	CategoryID     *int64           `db:"category_id" json:"-"`
	CategoryName   string           `db:"category_name" json:"category"`
	CollectionID   *int64           `db:"collection_id" json:"collectionId"`
	Image          string           `db:"image" json:"image"`
	SecondaryImage string           `db:"secondary_image" json:"secondaryImage,omitempty"`
	IsNew          bool             `db:"is_new" json:"isNew"`
	Description    string           `db:"description" json:"description"`
	InStock        bool             `db:"in_stock" json:"inStock"`
	Details        StringList       `db:"details" json:"details"`
	Colors         StringList       `db:"colors" json:"colors"`
	Sizes          StringList       `db:"sizes" json:"sizes"`
	AvailableSizes StringList       `db:"available_sizes" json:"availableSizes"`
	CreatedAt      time.Time        `db:"created_at" json:"-"`
	UpdatedAt      time.Time        `db:"updated_at" json:"-"`
}

// Category is unique by name and implicitly created when a product write
// references a name with no matching row.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Image       string `db:"image" json:"image,omitempty"`
	Description string `db:"description" json:"description,omitempty"`
}

// Collection sizes
const (
	CollectionSizeSmall  = "small"
	CollectionSizeMedium = "medium"
	CollectionSizeLarge  = "large"
)

// Collection is a curated product grouping shown on the storefront.
type Collection struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Subtitle string `db:"subtitle" json:"subtitle"`
	Image    string `db:"image" json:"image"`
	Category string `db:"category" json:"category,omitempty"`
	Size     string `db:"size" json:"size"`
}

// Account is a customer account managed by the account directory.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Staff     bool      `db:"staff" json:"staff"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AccountProfile holds contact details. A profile is created lazily the first
// time something needs it, not at account creation.
type AccountProfile struct {
	AccountID  int64     `db:"account_id" json:"-"`
	Phone      string    `db:"phone" json:"phone"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	PostalCode string    `db:"postal_code" json:"postalCode"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// SocialLinks groups the store's social profiles in API responses.
type SocialLinks struct {
	Instagram string `json:"instagram"`
	Tiktok    string `json:"tiktok"`
}

// StoreConfig is the single mutable store-configuration record. The
// singleton_key column is a CHECKed constant, so at most one row can exist.
type StoreConfig struct {
	SingletonKey          bool            `db:"singleton_key" json:"-"`
	StoreName             string          `db:"store_name" json:"storeName"`
	SupportEmail          string          `db:"support_email" json:"supportEmail"`
	Currency              string          `db:"currency" json:"currency"`
	ShippingFlatRate      decimal.Decimal `db:"shipping_flat_rate" json:"shippingFlatRate"`
	FreeShippingThreshold decimal.Decimal `db:"free_shipping_threshold" json:"freeShippingThreshold"`
	MaintenanceMode       bool            `db:"maintenance_mode" json:"maintenanceMode"`
	InstagramURL          string          `db:"instagram_url" json:"-"`
	TiktokURL             string          `db:"tiktok_url" json:"-"`
}

// MarshalJSON folds the social URL columns into a socialLinks object.
func (c StoreConfig) MarshalJSON() ([]byte, error) {
	type alias StoreConfig
	return json.Marshal(struct {
		alias
		SocialLinks SocialLinks `json:"socialLinks"`
	}{
		alias:       alias(c),
		SocialLinks: SocialLinks{Instagram: c.InstagramURL, Tiktok: c.TiktokURL},
	})
}

// Caller identifies who is making a request. The zero value is anonymous.
type Caller struct {
	Email string
	Staff bool
}

// Authenticated reports whether the caller presented a valid identity.
func (c Caller) Authenticated() bool {
	return c.Staff || c.Email != ""
}
