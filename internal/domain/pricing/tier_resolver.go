package pricing

import (
	"cmp"
	"fmt"
	"slices"

	"cpq_engine/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// TierResolutionError reports a quantity that no tier of a product covers.
// It always indicates a catalog authoring problem.
type TierResolutionError struct {
	ProductID string
	Quantity  int
}

func (e *TierResolutionError) Error() string {
	return fmt.Sprintf("no tier of product %q matches quantity %d", e.ProductID, e.Quantity)
}

func (e *TierResolutionError) Is(target error) bool {
	return target == entities.ErrTierResolution
}

// ResolveUnitPrice returns the effective unit price of product at quantity.
//
// Tiers are scanned in ascending MinQty order and the first containing tier
// wins. A product without tiers always costs BasePrice. A product with tiers
// but no matching one fails; BasePrice is never used as a fallback there.
func ResolveUnitPrice(product entities.Product, quantity int) (decimal.Decimal, error) {
	tier, tiered, err := ResolveTier(product, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if !tiered {
		return product.BasePrice, nil
	}
	return tier.Price, nil
}

// ResolveTier returns the tier covering quantity. tiered is false for a
// product without tiers, which is priced at BasePrice.
func ResolveTier(product entities.Product, quantity int) (tier entities.Tier, tiered bool, err error) {
	if quantity < 1 {
		return entities.Tier{}, false, fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidInput, quantity)
	}
	if len(product.Tiers) == 0 {
		return entities.Tier{}, false, nil
	}
	tiers := slices.SortedStableFunc(slices.Values(product.Tiers), func(a, b entities.Tier) int {
		return cmp.Compare(a.MinQty, b.MinQty)
	})
	for _, t := range tiers {
		if t.Contains(quantity) {
			return t, true, nil
		}
	}
	return entities.Tier{}, true, &TierResolutionError{ProductID: product.ID, Quantity: quantity}
}
