package remote

import (
	"context"
	"net/http"

	"wanderly/models"
)

type addToCartBody struct {
	ProductItemID string `json:"productItemId"`
	ProductDate   string `json:"productDate"`
	Quantity      int    `json:"quantity"`
	VendorID      string `json:"vendorId"`
	TemplateID    string `json:"templateId"`
}

type updateQuantityBody struct {
	Quantity int `json:"quantity"`
}

// GetCart fetches the caller's cart. A user without a cart yet gets an empty one.
func (c *Client) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, token, http.MethodGet, "/cart", nil, &cart); err != nil {
		if IsNotFound(err) {
			return &models.Cart{Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return &cart, nil
}

// AddToCart posts a line. The backend merges it with an existing line for the same item.
func (c *Client) AddToCart(ctx context.Context, token string, req models.AddItemRequest) error {
	body := addToCartBody{
		ProductItemID: req.ProductItemID,
		ProductDate:   req.ProductDate,
		Quantity:      req.Quantity,
		VendorID:      req.VendorID,
		TemplateID:    req.TemplateID,
	}
	return c.do(ctx, token, http.MethodPost, "/cart/add", body, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token, productItemID string, quantity int) error {
	return c.do(ctx, token, http.MethodPut, "/cart/"+escape(productItemID), updateQuantityBody{Quantity: quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token, productItemID string) error {
	return c.do(ctx, token, http.MethodDelete, "/cart/"+escape(productItemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, token, http.MethodDelete, "/cart", nil, nil)
}
