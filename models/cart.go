package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType is the kind of experience a product item belongs to.
type ProductType string

const (
	ProductTypeTours   ProductType = "tours"
	ProductTypeLessons ProductType = "lessons"
	ProductTypeRentals ProductType = "rentals"
	ProductTypeTickets ProductType = "tickets"
)

// CartItem is one line in a user's cart. ProductItemID is unique within a cart.
type CartItem struct {
	ProductItemID      string          `json:"productItemId"`
	TemplateID         string          `json:"templateId"`
	TemplateName       string          `json:"templateName,omitempty"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription,omitempty"`
	Price              decimal.Decimal `json:"price"`
	Quantity           int             `json:"quantity"`
	ProductDate        string          `json:"productDate,omitempty"`      // e.g., "2024-06-01"
	ProductStartTime   string          `json:"productStartTime,omitempty"` // "HH:mm"
	ProductDuration    int             `json:"productDuration,omitempty"`  // minutes
	VendorID           string          `json:"vendorId"`
	ProductType        ProductType     `json:"productType"`
	QuantityAvailable  *int            `json:"quantityAvailable,omitempty"` // stock snapshot at last sync
}

// Subtotal returns price * quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Schedule returns the item's booked interval, or Unscheduled when any of
// date, start time or duration is missing.
func (i CartItem) Schedule() Schedule {
	return NewSchedule(i.ProductDate, i.ProductStartTime, i.ProductDuration)
}

// Cart is the server-persisted cart of one user, as last observed by this process.
type Cart struct {
	UserID    string          `json:"userId"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ComputeTotal sums price * quantity across all items.
func (c *Cart) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Item looks up a line by product item id.
func (c *Cart) Item(productItemID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductItemID == productItemID {
			return item, true
		}
	}
	return CartItem{}, false
}

// Normalize enforces the cart invariants on a server snapshot: rows with a
// quantity below one are dropped, duplicate product item ids are merged into
// the first row, and Total is recomputed.
func (c *Cart) Normalize() {
	items := make([]CartItem, 0, len(c.Items))
	index := make(map[string]int, len(c.Items))
	for _, item := range c.Items {
		if item.Quantity < 1 {
			continue
		}
		if at, seen := index[item.ProductItemID]; seen {
			items[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductItemID] = len(items)
		items = append(items, item)
	}
	c.Items = items
	c.Total = c.ComputeTotal()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Clone returns a copy that shares no slices with c.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		if item.QuantityAvailable != nil {
			available := *item.QuantityAvailable
			item.QuantityAvailable = &available
		}
		out.Items[i] = item
	}
	return &out
}
