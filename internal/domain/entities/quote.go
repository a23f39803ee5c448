package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle of a quote.
//
// draft --(finalize)--> finalized. finalized is terminal.
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusFinalized QuoteStatus = "finalized"
)

// LineItem is a read-only projection of one quote line.
//
// UnitPrice, DiscountApplied and LineTotal are derived by the quote aggregate;
// changing them on a snapshot has no effect on the quote.
type LineItem struct {
	ID              string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountApplied decimal.Decimal
	LineTotal       decimal.Decimal
}

// Quote is a read-only snapshot of the quote aggregate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//
// Version starts at 1 and grows by one with every committed change. Storage
// accepts a write only when it advances the stored version by exactly one.
//
// Derived totals always satisfy:
//   - Subtotal == sum(Quantity * UnitPrice)
//   - GrandTotal == Subtotal - TotalDiscount
type Quote struct {
	ID            string
	CustomerID    string
	LineItems     []LineItem
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        QuoteStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy of the snapshot.
func (q Quote) Clone() Quote {
	out := q
	if q.LineItems != nil {
		out.LineItems = make([]LineItem, len(q.LineItems))
		copy(out.LineItems, q.LineItems)
	}
	return out
}
