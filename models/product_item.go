package models

import "github.com/shopspring/decimal"

// ItemStatus is the publication state of a product item.
type ItemStatus string

const (
	ItemStatusPublished ItemStatus = "PUBLISHED"
	ItemStatusDraft     ItemStatus = "DRAFT"
	ItemStatusArchived  ItemStatus = "ARCHIVED"
)

// ProductItem is one concrete, dated bookable inventory unit.
type ProductItem struct {
	ID                string          `json:"id"`
	TemplateID        string          `json:"templateId"`
	TemplateName      string          `json:"templateName,omitempty"`
	VendorID          string          `json:"vendorId"`
	ItemStatus        ItemStatus      `json:"itemStatus"`
	QuantityAvailable int             `json:"quantityAvailable"`
	ProductDate       string          `json:"productDate,omitempty"`
	StartTime         string          `json:"startTime,omitempty"` // "HH:mm"
	Duration          int             `json:"duration,omitempty"`  // minutes
	Price             decimal.Decimal `json:"price"`
	ProductType       ProductType     `json:"productType,omitempty"`
}

// IsPublished reports whether the item can be booked at all.
func (p ProductItem) IsPublished() bool {
	return p.ItemStatus == ItemStatusPublished
}

// Schedule returns the item's interval on the shared timeline.
func (p ProductItem) Schedule() Schedule {
	return NewSchedule(p.ProductDate, p.StartTime, p.Duration)
}
