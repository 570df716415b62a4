package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventTypeOrderCreated = "OrderCreated"

type OrderCreated struct {
	EventType   string          `json:"eventType"`
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderLine     `json:"items"`
	Timestamp   time.Time       `json:"timestamp"`
}

type OrderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
