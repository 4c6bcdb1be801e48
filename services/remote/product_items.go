package remote

import (
	"context"
	"net/http"

	"wanderly/models"
)

// GetProductItem fetches the current status and stock of one inventory unit.
func (c *Client) GetProductItem(ctx context.Context, token, productItemID string) (*models.ProductItem, error) {
	var item models.ProductItem
	if err := c.do(ctx, token, http.MethodGet, "/product-items/"+escape(productItemID), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
