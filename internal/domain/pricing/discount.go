package pricing

import (
	"fmt"
	"strings"

	"cpq_engine/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// DefaultBundleRate is the bundle discount used when no rule table is configured.
var DefaultBundleRate = decimal.RequireFromString("0.10")

// DiscountRule is a bundle rule: every line of Target category gets Rate off
// its pre-discount value when the quote also holds Requires category lines
// totalling at least MinRequiredQuantity units (0 or 1 means any line).
type DiscountRule struct {
	Name                string
	Target              entities.Category
	Requires            entities.Category
	MinRequiredQuantity int
	Rate                decimal.Decimal
}

// RuleTable is evaluated in order. Amounts from matching rules stack additively
// and the sum is clamped to the line value.
type RuleTable []DiscountRule

// DefaultRules attaches the bundle discount to AI add-ons quoted alongside an
// enterprise license.
func DefaultRules(rate decimal.Decimal) RuleTable {
	return RuleTable{{
		Name:     "ai-addon-enterprise-bundle",
		Target:   entities.CategoryAIAddon,
		Requires: entities.CategoryEnterpriseLicense,
		Rate:     rate,
	}}
}

func (t RuleTable) Validate() error {
	one := decimal.NewFromInt(1)
	for i, r := range t {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: rule %d has no name", entities.ErrInvalidInput, i)
		}
		if _, err := entities.ParseCategory(string(r.Target)); err != nil {
			return fmt.Errorf("rule %q target: %w", r.Name, err)
		}
		if _, err := entities.ParseCategory(string(r.Requires)); err != nil {
			return fmt.Errorf("rule %q requires: %w", r.Name, err)
		}
		if r.Rate.IsNegative() || r.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: rule %q rate %s outside [0, 1]", entities.ErrInvalidInput, r.Name, r.Rate)
		}
		if r.MinRequiredQuantity < 0 {
			return fmt.Errorf("%w: rule %q min_required_quantity is negative", entities.ErrInvalidInput, r.Name)
		}
	}
	return nil
}

// DiscountEngine computes per-line discounts for a whole line set. Volume
// pricing lives in tiers and is never applied here.
type DiscountEngine struct {
	rules RuleTable
}

func NewDiscountEngine(rules RuleTable) *DiscountEngine {
	cp := make(RuleTable, len(rules))
	copy(cp, rules)
	return &DiscountEngine{rules: cp}
}

func (e *DiscountEngine) Rules() RuleTable {
	cp := make(RuleTable, len(e.rules))
	copy(cp, e.rules)
	return cp
}

// Apply returns the discount of every line keyed by line id. Lines must carry
// a resolved UnitPrice. The result depends only on lines and catalog.
func (e *DiscountEngine) Apply(lines []PricedLine, catalog *Catalog) (map[string]decimal.Decimal, error) {
	categories := make([]entities.Category, len(lines))
	unitsByCategory := make(map[entities.Category]int)
	for i, l := range lines {
		p, err := catalog.GetProduct(l.ProductID)
		if err != nil {
			return nil, err
		}
		categories[i] = p.Category
		unitsByCategory[p.Category] += l.Quantity
	}

	out := make(map[string]decimal.Decimal, len(lines))
	for i, l := range lines {
		value := l.Value()
		amount := decimal.Zero
		for _, r := range e.rules {
			if categories[i] != r.Target {
				continue
			}
			if unitsByCategory[r.Requires] < max(r.MinRequiredQuantity, 1) {
				continue
			}
			amount = amount.Add(value.Mul(r.Rate).Round(2))
		}
		if amount.GreaterThan(value) {
			amount = value
		}
		out[l.LineID] = amount
	}
	return out, nil
}
