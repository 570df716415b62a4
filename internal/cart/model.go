package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the persisted cart row: a pending intent to buy a quantity of a
// product. It exists until order placement or explicit removal.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// ItemView is a cart row enriched with live product data. TotalPrice is
// computed at read time from the current product price.
type ItemView struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductPrice    decimal.Decimal `json:"productPrice"`
	ProductImageURL string          `json:"productImageUrl,omitempty"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	AddedAt         time.Time       `json:"addedAt"`
}

type View struct {
	Items       []ItemView      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// NewView assembles the cart response, computing line and cart totals.
func NewView(items []ItemView) View {
	v := View{Items: items, TotalAmount: decimal.Zero}
	if v.Items == nil {
		v.Items = []ItemView{}
	}
	for i := range v.Items {
		v.Items[i].TotalPrice = lineTotal(v.Items[i].ProductPrice, v.Items[i].Quantity)
		v.TotalAmount = v.TotalAmount.Add(v.Items[i].TotalPrice)
		v.TotalItems += v.Items[i].Quantity
	}
	return v
}
