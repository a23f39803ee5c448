package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"
	"cpq_engine/internal/infrastructure/logger"
)

var ErrNoLinesToPrice = fmt.Errorf("%w: at least one line is required", entities.ErrInvalidInput)

// IPricingUseCase is the stateless price calculator: it prices product and
// quantity pairs with the quote engine's rules but stores nothing.

type IPricingUseCase interface {
	Calculate(ctx context.Context, lines []pricing.LineInput) (pricing.Calculation, error)
}

type PricingUseCase struct {
	catalog   *pricing.CatalogStore
	discounts *pricing.DiscountEngine
	log       *logger.Logger
}

var _ IPricingUseCase = (*PricingUseCase)(nil)

func NewPricingUseCase(catalog *pricing.CatalogStore, rules pricing.RuleTable, log *logger.Logger) *PricingUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &PricingUseCase{catalog: catalog, discounts: pricing.NewDiscountEngine(rules), log: log}
}

// Calculate prices lines against a single catalog snapshot. Lines without an
// id are numbered by position, starting at 1.
func (u *PricingUseCase) Calculate(ctx context.Context, lines []pricing.LineInput) (pricing.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return pricing.Calculation{}, err
	}
	if len(lines) == 0 {
		return pricing.Calculation{}, ErrNoLinesToPrice
	}

	inputs := make([]pricing.LineInput, len(lines))
	for i, l := range lines {
		l.ProductID = strings.TrimSpace(l.ProductID)
		if l.ProductID == "" {
			return pricing.Calculation{}, fmt.Errorf("%w: line %d has no product id", entities.ErrInvalidInput, i+1)
		}
		if strings.TrimSpace(l.LineID) == "" {
			l.LineID = strconv.Itoa(i + 1)
		}
		inputs[i] = l
	}

	calc, err := pricing.NewEngine(u.catalog.Snapshot(), u.discounts).Calculate(inputs)
	if err != nil {
		u.log.Warn("[pricing][usecase] calculation rejected", "lines", len(inputs), "err", err)
		return pricing.Calculation{}, err
	}
	u.log.Debug("[pricing][usecase] calculation success", "lines", len(inputs), "grand_total", calc.GrandTotal.StringFixed(2))
	return calc, nil
}
