package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wanderly/models"
	"wanderly/services/remote"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options tunes a DefaultCartService.
type Options struct {
	// StaleAfter is how long a snapshot is served without re-fetching. Zero
	// means a snapshot is only reused until the next invalidation.
	StaleAfter time.Duration
	// RefreshTimeout bounds background re-fetches started by RefreshCart.
	RefreshTimeout time.Duration
	// StrictInventory rejects adds and updates when the stock lookup itself fails.
	StrictInventory bool
}

// DefaultCartService implements CartService over a backend, a product item
// source and a per-user cache. The cache is never merged locally: every
// successful mutation invalidates it and the next read goes to the backend.
type DefaultCartService struct {
	backend   CartBackend
	items     ProductItemFetcher
	cache     CartCache
	validator *InventoryValidator
	logger    *zap.Logger
	opts      Options

	group      singleflight.Group
	background sync.WaitGroup
	now        func() time.Time
}

func NewCartService(backend CartBackend, items ProductItemFetcher, cache CartCache, logger *zap.Logger, opts Options) *DefaultCartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewMemoryCartCache()
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 10 * time.Second
	}
	return &DefaultCartService{
		backend:   backend,
		items:     items,
		cache:     cache,
		validator: NewInventoryValidator(items, logger, opts.StrictInventory),
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

func checkPrincipal(p Principal) error {
	if p.UserID == "" {
		return ErrNoUser
	}
	if p.Token == "" {
		return remote.ErrNoAuthToken
	}
	return nil
}

// Cart returns the user's cart, serving a fresh snapshot from the cache when
// one exists and fetching from the backend otherwise.
func (s *DefaultCartService) Cart(ctx context.Context, p Principal) (*models.Cart, error) {
	if err := checkPrincipal(p); err != nil {
		return nil, err
	}

	entry, err := s.cache.Get(ctx, p.UserID)
	switch {
	case err == nil && s.fresh(entry):
		return entry.Cart, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.logger.Warn("cart cache read failed, fetching from backend",
			zap.String("userID", p.UserID), zap.Error(err))
	}
	return s.fetch(ctx, p)
}

func (s *DefaultCartService) fresh(entry *CachedCart) bool {
	if entry.Stale || entry.Cart == nil {
		return false
	}
	if s.opts.StaleAfter <= 0 {
		return true
	}
	return s.now().Sub(entry.FetchedAt) < s.opts.StaleAfter
}

// fetch reads the cart from the backend and stores it. Concurrent fetches for
// the same user share one backend call, which runs detached from any single
// caller's cancellation and is bounded by RefreshTimeout instead. Each caller
// still stops waiting when its own ctx is done.
func (s *DefaultCartService) fetch(ctx context.Context, p Principal) (*models.Cart, error) {
	ch := s.group.DoChan(cacheKey(p.UserID), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RefreshTimeout)
		defer cancel()
		return s.load(fetchCtx, p)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Cart).Clone(), nil
	}
}

// load reads the backend and caches the result unless the user's cart was
// invalidated while the read was in flight.
func (s *DefaultCartService) load(ctx context.Context, p Principal) (*models.Cart, error) {
	gen, genErr := s.cache.Generation(ctx, p.UserID)
	if genErr != nil {
		s.logger.Warn("cart cache generation read failed, result will not be cached",
			zap.String("userID", p.UserID), zap.Error(genErr))
	}

	cart, err := s.backend.GetCart(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	cart.Normalize()
	if cart.UserID == "" {
		cart.UserID = p.UserID
	}
	if genErr != nil {
		return cart, nil
	}

	stored, err := s.cache.Set(ctx, p.UserID, cart, gen)
	switch {
	case err != nil:
		s.logger.Warn("failed to cache cart", zap.String("userID", p.UserID), zap.Error(err))
	case !stored:
		s.logger.Debug("discarding cart read that predates an invalidation", zap.String("userID", p.UserID))
	}
	return cart, nil
}

// Invalidate marks the user's snapshot stale so the next read re-fetches it.
// Reads already in flight finish but can no longer store their result.
func (s *DefaultCartService) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUser
	}
	s.group.Forget(cacheKey(userID))
	return s.cache.Invalidate(ctx, userID)
}

// afterMutation invalidates the snapshot and returns the backend's new view.
func (s *DefaultCartService) afterMutation(ctx context.Context, p Principal, op string) (*models.Cart, error) {
	if err := s.Invalidate(ctx, p.UserID); err != nil {
		s.logger.Warn("cart invalidation failed", zap.String("userID", p.UserID), zap.String("op", op), zap.Error(err))
	}
	cart, err := s.fetch(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w after %s: %w", ErrRefetch, op, err)
	}
	return cart, nil
}

// AddItem validates stock and schedule, then adds the item on the backend.
func (s *DefaultCartService) AddItem(ctx context.Context, p Principal, req models.AddItemRequest) (*models.Cart, error) {
	if err := checkPrincipal(p); err != nil {
		return nil, err
	}
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	if verr := s.validator.Validate(ctx, p.Token, req.ProductItemID, req.Quantity); verr != nil {
		s.logger.Info("add to cart rejected",
			zap.String("userID", p.UserID),
			zap.String("productItemID", req.ProductItemID),
			zap.String("kind", string(verr.Kind)))
		return nil, verr
	}

	item, err := s.items.GetProductItem(ctx, p.Token, req.ProductItemID)
	if err != nil {
		s.logger.Error("failed to load product item", zap.String("productItemID", req.ProductItemID), zap.Error(err))
		return nil, fmt.Errorf("cart: load product item %s: %w", req.ProductItemID, err)
	}

	current, err := s.Cart(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("cart: load cart: %w", err)
	}
	if !current.IsEmpty() {
		candidate := models.NewSchedule(firstNonEmpty(item.ProductDate, req.ProductDate), item.StartTime, item.Duration)
		if verr := CheckConflicts(candidate, excluding(current.Items, req.ProductItemID)); verr != nil {
			s.logger.Info("add to cart rejected",
				zap.String("userID", p.UserID),
				zap.String("productItemID", req.ProductItemID),
				zap.String("kind", string(verr.Kind)))
			return nil, verr
		}
	}

	req.ProductDate = normalizedDate(item.ProductDate, req.ProductDate)
	if err := s.backend.AddToCart(ctx, p.Token, req); err != nil {
		s.logger.Error("add to cart failed", zap.String("userID", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("cart: add %s: %w", req.ProductItemID, err)
	}
	return s.afterMutation(ctx, p, "add")
}

// UpdateItem sets a line's quantity. A quantity of zero or less removes the line.
func (s *DefaultCartService) UpdateItem(ctx context.Context, p Principal, productItemID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, p, productItemID)
	}
	if err := checkPrincipal(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(productItemID) == "" {
		return nil, models.NewValidationError(models.InvalidRequest, "productItemId is required")
	}

	if verr := s.validator.Validate(ctx, p.Token, productItemID, quantity); verr != nil {
		s.logger.Info("cart update rejected",
			zap.String("userID", p.UserID),
			zap.String("productItemID", productItemID),
			zap.String("kind", string(verr.Kind)))
		return nil, verr
	}

	if err := s.backend.UpdateCartItem(ctx, p.Token, productItemID, quantity); err != nil {
		s.logger.Error("cart update failed", zap.String("userID", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("cart: update %s: %w", productItemID, err)
	}
	return s.afterMutation(ctx, p, "update")
}

// RemoveItem deletes one line. On failure the cache is left untouched.
func (s *DefaultCartService) RemoveItem(ctx context.Context, p Principal, productItemID string) (*models.Cart, error) {
	if err := checkPrincipal(p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(productItemID) == "" {
		return nil, models.NewValidationError(models.InvalidRequest, "productItemId is required")
	}

	if err := s.backend.RemoveCartItem(ctx, p.Token, productItemID); err != nil {
		s.logger.Error("cart remove failed", zap.String("userID", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("cart: remove %s: %w", productItemID, err)
	}
	return s.afterMutation(ctx, p, "remove")
}

// Clear empties the cart on the backend.
func (s *DefaultCartService) Clear(ctx context.Context, p Principal) (*models.Cart, error) {
	if err := checkPrincipal(p); err != nil {
		return nil, err
	}

	if err := s.backend.ClearCart(ctx, p.Token); err != nil {
		s.logger.Error("cart clear failed", zap.String("userID", p.UserID), zap.Error(err))
		return nil, fmt.Errorf("cart: clear: %w", err)
	}
	return s.afterMutation(ctx, p, "clear")
}

// RefreshCart marks the snapshot stale and re-fetches it in the background.
// It does not wait for the fetch.
func (s *DefaultCartService) RefreshCart(p Principal) {
	if checkPrincipal(p) != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefreshTimeout)
	if err := s.Invalidate(ctx, p.UserID); err != nil {
		s.logger.Warn("cart invalidation failed", zap.String("userID", p.UserID), zap.Error(err))
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer cancel()
		if _, err := s.fetch(ctx, p); err != nil {
			s.logger.Warn("background cart refresh failed", zap.String("userID", p.UserID), zap.Error(err))
		}
	}()
}

// Wait blocks until background refreshes have finished.
func (s *DefaultCartService) Wait() {
	s.background.Wait()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalizedDate prefers the product item's own date and falls back to the
// requested one. Unparseable values are dropped.
func normalizedDate(itemDate, requestedDate string) string {
	for _, candidate := range []string{itemDate, requestedDate} {
		if candidate == "" {
			continue
		}
		if date, err := models.NormalizeDate(candidate); err == nil {
			return date
		}
	}
	return ""
}
