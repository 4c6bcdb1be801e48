package cart

import (
	"context"
	"sync"

	"wanderly/models"
	"wanderly/services/remote"

	"github.com/shopspring/decimal"
)

// fakeBackend is an in-memory marketplace backend: one cart, a product catalogue,
// and injectable failures.
type fakeBackend struct {
	mu       sync.Mutex
	cart     models.Cart
	products map[string]*models.ProductItem

	productErr map[string]error
	getErr     error
	addErr     error
	updateErr  error
	removeErr  error
	clearErr   error

	// When holdFirstGet is set, the first GetCart takes its snapshot, signals
	// firstGetEntered and blocks until holdFirstGet is closed or ctx ends.
	holdFirstGet    chan struct{}
	firstGetEntered chan struct{}

	getCalls     int
	productCalls int
	added        []models.AddItemRequest
	updated      map[string]int
	removed      []string
	cleared      int
}

func newFakeBackend(userID string) *fakeBackend {
	return &fakeBackend{
		cart:       models.Cart{UserID: userID, Items: []models.CartItem{}},
		products:   make(map[string]*models.ProductItem),
		productErr: make(map[string]error),
		updated:    make(map[string]int),
	}
}

func (f *fakeBackend) withProduct(item models.ProductItem) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[item.ID] = &item
	return f
}

func (f *fakeBackend) withLine(item models.CartItem) *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart.Items = append(f.cart.Items, item)
	return f
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}

func (f *fakeBackend) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	if token == "" {
		return nil, remote.ErrNoAuthToken
	}
	f.mu.Lock()
	f.getCalls++
	call := f.getCalls
	err := f.getErr
	out := f.cart.Clone()
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if call == 1 && f.holdFirstGet != nil {
		close(f.firstGetEntered)
		select {
		case <-f.holdFirstGet:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out.Total = out.ComputeTotal()
	return out, nil
}

// holdFirstRead makes the next GetCart block after taking its snapshot.
func (f *fakeBackend) holdFirstRead() (entered <-chan struct{}, release func()) {
	f.holdFirstGet = make(chan struct{})
	f.firstGetEntered = make(chan struct{})
	return f.firstGetEntered, func() { close(f.holdFirstGet) }
}

func (f *fakeBackend) GetProductItem(_ context.Context, _ string, productItemID string) (*models.ProductItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCalls++
	if err := f.productErr[productItemID]; err != nil {
		return nil, err
	}
	item, ok := f.products[productItemID]
	if !ok {
		return nil, &remote.APIError{StatusCode: 404, Message: "Product item not found"}
	}
	copied := *item
	return &copied, nil
}

func (f *fakeBackend) AddToCart(_ context.Context, _ string, req models.AddItemRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, req)
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductItemID == req.ProductItemID {
			f.cart.Items[i].Quantity += req.Quantity
			return nil
		}
	}
	line := models.CartItem{
		ProductItemID: req.ProductItemID,
		TemplateID:    req.TemplateID,
		VendorID:      req.VendorID,
		Quantity:      req.Quantity,
		ProductDate:   req.ProductDate,
		Price:         decimal.Zero,
	}
	if p, ok := f.products[req.ProductItemID]; ok {
		line.ProductName = p.TemplateName
		line.Price = p.Price
		line.ProductStartTime = p.StartTime
		line.ProductDuration = p.Duration
		line.ProductType = p.ProductType
	}
	f.cart.Items = append(f.cart.Items, line)
	return nil
}

func (f *fakeBackend) UpdateCartItem(_ context.Context, _ string, productItemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[productItemID] = quantity
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductItemID == productItemID {
			f.cart.Items[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeBackend) RemoveCartItem(_ context.Context, _ string, productItemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, productItemID)
	f.cart.Items = excluding(f.cart.Items, productItemID)
	return nil
}

func (f *fakeBackend) ClearCart(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	f.cart.Items = []models.CartItem{}
	return nil
}

func published(id string, available int, date, start string, duration int) models.ProductItem {
	return models.ProductItem{
		ID:                id,
		TemplateID:        "tpl-" + id,
		TemplateName:      "Experience " + id,
		VendorID:          "vendor-1",
		ItemStatus:        models.ItemStatusPublished,
		QuantityAvailable: available,
		ProductDate:       date,
		StartTime:         start,
		Duration:          duration,
		Price:             decimal.RequireFromString("25.00"),
		ProductType:       models.ProductTypeLessons,
	}
}

func line(id, date, start string, duration, quantity int) models.CartItem {
	return models.CartItem{
		ProductItemID:    id,
		TemplateID:       "tpl-" + id,
		ProductName:      "Experience " + id,
		Price:            decimal.RequireFromString("25.00"),
		Quantity:         quantity,
		ProductDate:      date,
		ProductStartTime: start,
		ProductDuration:  duration,
		VendorID:         "vendor-1",
		ProductType:      models.ProductTypeLessons,
	}
}
