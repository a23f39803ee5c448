package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups catalog products for bundling rules.
type Category string

const (
	CategoryEnterpriseLicense Category = "enterprise_license"
	CategoryAIAddon           Category = "ai_addon"
)

// Categories lists every known category in catalog display order.
var Categories = []Category{CategoryEnterpriseLicense, CategoryAIAddon}

// ParseCategory accepts only the known categories. Unknown values are an input
// error, never a silent fallback.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case CategoryEnterpriseLicense, CategoryAIAddon:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, raw)
}

// PricingType is the billing unit a product price refers to.
type PricingType string

const (
	PricingTypePerSeat  PricingType = "per_seat"
	PricingTypePerMonth PricingType = "per_month"
	PricingTypePerUser  PricingType = "per_user"
	PricingTypeFlat     PricingType = "flat"
)

func ParsePricingType(raw string) (PricingType, error) {
	p := PricingType(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PricingTypePerSeat, PricingTypePerMonth, PricingTypePerUser, PricingTypeFlat:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown pricing type %q", ErrInvalidInput, raw)
}

// Tier maps an inclusive quantity range to a unit price.
// A nil MaxQty means the tier has no upper bound.
type Tier struct {
	Name   string
	MinQty int
	MaxQty *int
	Price  decimal.Decimal
}

// Contains reports whether quantity falls inside the tier range.
func (t Tier) Contains(quantity int) bool {
	if quantity < t.MinQty {
		return false
	}
	return t.MaxQty == nil || quantity <= *t.MaxQty
}

func (t Tier) Unbounded() bool { return t.MaxQty == nil }

// Product is an immutable catalog definition.
//
// Tiers are expected sorted ascending by MinQty, non-overlapping and contiguous.
// Violations are catalog authoring errors and surface when a quantity cannot be
// resolved, not at load time.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Category    Category
	PricingType PricingType
	BasePrice   decimal.Decimal
	Tiers       []Tier
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	out := p
	if p.Tiers != nil {
		out.Tiers = make([]Tier, len(p.Tiers))
		for i, t := range p.Tiers {
			out.Tiers[i] = t
			if t.MaxQty != nil {
				upper := *t.MaxQty
				out.Tiers[i].MaxQty = &upper
			}
		}
	}
	return out
}

// IntPtr is a helper for building bounded tiers.
func IntPtr(v int) *int { return &v }
