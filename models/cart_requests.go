package models

import "strings"

// AddItemRequest is the payload for adding a product item to the cart.
type AddItemRequest struct {
	ProductItemID string `json:"productItemId" binding:"required"`
	ProductDate   string `json:"productDate"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	VendorID      string `json:"vendorId" binding:"required"`
	TemplateID    string `json:"templateId" binding:"required"`
}

// Validate checks the request shape for callers that bypass gin binding.
func (r AddItemRequest) Validate() *ValidationError {
	if strings.TrimSpace(r.ProductItemID) == "" {
		return NewValidationError(InvalidRequest, "productItemId is required")
	}
	if r.Quantity < 1 {
		return NewValidationError(InvalidRequest, "quantity must be a positive integer")
	}
	if strings.TrimSpace(r.VendorID) == "" {
		return NewValidationError(InvalidRequest, "vendorId is required")
	}
	if strings.TrimSpace(r.TemplateID) == "" {
		return NewValidationError(InvalidRequest, "templateId is required")
	}
	if r.ProductDate != "" {
		if _, err := ParseDate(r.ProductDate); err != nil {
			return NewValidationError(InvalidRequest, "productDate %q is not a date", r.ProductDate)
		}
	}
	return nil
}

// UpdateItemRequest sets a new quantity on an existing line. Zero or less removes it.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
