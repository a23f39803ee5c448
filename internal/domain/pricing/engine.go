package pricing

import (
	"github.com/shopspring/decimal"
)

// LineInput is the user-controlled part of a quote line.
type LineInput struct {
	LineID    string
	ProductID string
	Quantity  int
}

// PricedLine is a line with all derived amounts filled in.
type PricedLine struct {
	LineID    string
	ProductID string
	Quantity  int
	TierName  string
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	LineTotal decimal.Decimal
}

// Calculation is a priced line set with its totals.
type Calculation struct {
	Lines         []PricedLine
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	GrandTotal    decimal.Decimal
}

// Totals sums pre-discount values and discounts of lines.
func Totals(lines []PricedLine) (subtotal, discount, grand decimal.Decimal) {
	subtotal, discount = decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Value())
		discount = discount.Add(l.Discount)
	}
	return subtotal, discount, subtotal.Sub(discount)
}

// Value is the pre-discount line value.
func (l PricedLine) Value() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Engine prices line sets against a single catalog snapshot.
type Engine struct {
	catalog   *Catalog
	discounts *DiscountEngine
}

func NewEngine(catalog *Catalog, discounts *DiscountEngine) *Engine {
	if catalog == nil {
		catalog = EmptyCatalog()
	}
	if discounts == nil {
		discounts = NewDiscountEngine(nil)
	}
	return &Engine{catalog: catalog, discounts: discounts}
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// Price resolves the unit price of every line, then runs the discount engine
// once over the whole set. Any failure aborts without a partial result.
func (e *Engine) Price(lines []LineInput) ([]PricedLine, error) {
	priced := make([]PricedLine, len(lines))
	for i, l := range lines {
		p, err := e.catalog.GetProduct(l.ProductID)
		if err != nil {
			return nil, err
		}
		tier, tiered, err := ResolveTier(p, l.Quantity)
		if err != nil {
			return nil, err
		}
		priced[i] = PricedLine{
			LineID:    l.LineID,
			ProductID: p.ID,
			Quantity:  l.Quantity,
			UnitPrice: p.BasePrice,
		}
		if tiered {
			priced[i].TierName = tier.Name
			priced[i].UnitPrice = tier.Price
		}
	}

	discounts, err := e.discounts.Apply(priced, e.catalog)
	if err != nil {
		return nil, err
	}
	for i := range priced {
		priced[i].Discount = discounts[priced[i].LineID]
		priced[i].LineTotal = priced[i].Value().Sub(priced[i].Discount)
	}
	return priced, nil
}

// Calculate prices lines and totals them without touching any quote.
func (e *Engine) Calculate(lines []LineInput) (Calculation, error) {
	priced, err := e.Price(lines)
	if err != nil {
		return Calculation{}, err
	}
	subtotal, discount, grand := Totals(priced)
	return Calculation{Lines: priced, Subtotal: subtotal, TotalDiscount: discount, GrandTotal: grand}, nil
}
