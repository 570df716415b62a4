package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values known to the system. The status column itself is an open
// string: any non-empty value is accepted on update, matching the
// permissive behavior of the service this replaces.
type Status = string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Item is an order line with the product name and unit price frozen at
// placement time. Later catalog price changes never alter it.
type Item struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// Order is immutable once created, except for Status.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          Status          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	BillingAddress  string          `json:"billingAddress"`
	Notes           string          `json:"notes,omitempty"`
	Items           []Item          `json:"orderItems"`
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
