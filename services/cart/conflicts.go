package cart

import (
	"wanderly/models"
)

// CheckConflicts returns TIME_CONFLICT for the first existing item whose
// interval overlaps the candidate. Unscheduled items never conflict.
func CheckConflicts(candidate models.Schedule, existing []models.CartItem) *models.ValidationError {
	slot, ok := candidate.(models.Scheduled)
	if !ok {
		return nil
	}

	for _, item := range existing {
		switch other := item.Schedule().(type) {
		case models.Scheduled:
			if slot.Overlaps(other) {
				return models.NewValidationError(models.TimeConflict,
					"This booking overlaps with %s on %s at %s",
					displayName(item), other.Start.Format("2006-01-02"), other.Start.Format("15:04"))
			}
		case models.Unscheduled:
			continue
		}
	}
	return nil
}

func displayName(item models.CartItem) string {
	switch {
	case item.ProductName != "":
		return item.ProductName
	case item.TemplateName != "":
		return item.TemplateName
	default:
		return "another item in your cart"
	}
}

// excluding drops the line for productItemID; re-adding an item merges into it
// rather than competing with it.
func excluding(items []models.CartItem, productItemID string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductItemID != productItemID {
			out = append(out, item)
		}
	}
	return out
}
