package cart

import (
	"context"

	"wanderly/models"
	"wanderly/services/remote"

	"go.uber.org/zap"
)

// InventoryValidator checks a requested quantity against the live product item.
type InventoryValidator struct {
	items  ProductItemFetcher
	logger *zap.Logger
	strict bool
}

// NewInventoryValidator builds a validator. When strict is false a transport
// failure while reading the item is logged and the request is let through;
// the backend still enforces stock on write.
func NewInventoryValidator(items ProductItemFetcher, logger *zap.Logger, strict bool) *InventoryValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryValidator{items: items, logger: logger, strict: strict}
}

// Validate returns nil when the item is published and has at least quantity units left.
func (v *InventoryValidator) Validate(ctx context.Context, token, productItemID string, quantity int) *models.ValidationError {
	item, err := v.items.GetProductItem(ctx, token, productItemID)
	if err != nil {
		if remote.IsTransportError(err) && !v.strict {
			v.logger.Warn("inventory check skipped, product item lookup failed",
				zap.String("productItemID", productItemID),
				zap.Error(err))
			return nil
		}
		return models.NewValidationError(models.ItemUnavailable, "This item is no longer available")
	}

	if !item.IsPublished() {
		return models.NewValidationError(models.ItemUnavailable, "This item is no longer available")
	}
	if item.QuantityAvailable < quantity {
		return models.NewValidationError(models.InsufficientQuantity,
			"Only %d available for this item", item.QuantityAvailable)
	}
	return nil
}
