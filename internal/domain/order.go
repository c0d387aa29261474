package domain

import "time"

// Order statuses are assigned by the backend, never by a chat session.
const (
	OrderStatusPlaced         = "Order Placed"
	OrderStatusShipped        = "Order Shipped"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Order Delivered"
	OrderStatusCancelled      = "Order Cancelled"
)

type Order struct {
	OrderID          string      `json:"orderId"`
	UserID           string      `json:"userId"`
	Lines            []OrderLine `json:"lines,omitempty"`
	TotalCents       int64       `json:"totalCents"`
	ShippingAddress  Address     `json:"shippingAddress"`
	CardMasked       string      `json:"-"`
	ExpiryDate       string      `json:"-"`
	Status           string      `json:"status"`
	PlacedAt         time.Time   `json:"placedAt"`
	ExpectedDelivery time.Time   `json:"expectedDelivery"`
}

type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	BookID         string `json:"bookId,omitempty"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type OrderSummary struct {
	OrderID          string    `json:"orderId"`
	PlacedAt         time.Time `json:"placedAt"`
	ExpectedDelivery time.Time `json:"expectedDelivery"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}
