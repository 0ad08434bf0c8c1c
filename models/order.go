package models

import (
	"fmt"
	"time"
)

// OrderStatus is the closed set of pickup-lifecycle states for an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusReadyForPickup OrderStatus = "ready for pickup"
	StatusPickedUp       OrderStatus = "picked up"
)

// OrderStatuses lists all valid statuses in lifecycle order. Used by the
// admin panel to render the status dropdown.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusReadyForPickup,
	StatusPickedUp,
}

// ParseOrderStatus validates a raw status value against the closed set
func ParseOrderStatus(raw string) (OrderStatus, error) {
	for _, s := range OrderStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", raw)
}

// IsValid reports whether the status is a member of the closed set
func (s OrderStatus) IsValid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// Order represents a customer order placed through the webshop
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	CustomerName  string      `gorm:"not null" json:"customer_name"`
	CustomerPhone *string     `json:"customer_phone"`
	CustomerEmail *string     `json:"customer_email"`
	BatchID       string      `gorm:"not null;index" json:"batch_id"` // batch slug, denormalized
	BatchName     string      `gorm:"not null" json:"batch_name"`
	PickupInfo    *string     `json:"pickup_info"`
	Notes         *string     `json:"notes"`
	Status        OrderStatus `gorm:"not null;default:'pending';index" json:"status"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64     `gorm:"-" json:"total_amount"` // computed field, sum of item subtotals
	TotalItems    int         `gorm:"-" json:"total_items"`  // computed field, sum of item quantities
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Hydrate fills the computed pricing fields on the order and its items.
// Items must have been loaded with their Product (Preload "Items.Product");
// prices always reflect the current product row, not the price at order time.
func (o *Order) Hydrate() {
	o.TotalAmount = 0
	o.TotalItems = 0
	for i := range o.Items {
		o.Items[i].Hydrate()
		o.TotalAmount += o.Items[i].Subtotal
		o.TotalItems += o.Items[i].Quantity
	}
}

// OrderItem is one product-and-quantity line within an order. Only the
// product reference and quantity are stored; unit price, subtotal and
// packaging info are computed from the live Product row on read.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"` // hard foreign key to products
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`

	// Computed fields, filled by Hydrate
	ProductName   string  `gorm:"-" json:"product_name"`
	ProductSlug   string  `gorm:"-" json:"product_slug"`
	UnitPrice     float64 `gorm:"-" json:"unit_price"`
	Subtotal      float64 `gorm:"-" json:"subtotal"`
	PackagingInfo string  `gorm:"-" json:"packaging_info"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Hydrate computes the display fields from the loaded Product
func (i *OrderItem) Hydrate() {
	i.ProductName = i.Product.Name
	i.ProductSlug = i.Product.Slug
	i.UnitPrice = i.Product.Price
	i.Subtotal = i.Product.Price * float64(i.Quantity)
	i.PackagingInfo = i.Product.PackagingInfo()
}
