package quote

import (
	"fmt"
	"strings"
	"time"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricer prices a full line set. *pricing.Engine is the production implementation.
type Pricer interface {
	Price(lines []pricing.LineInput) ([]pricing.PricedLine, error)
}

// Quote is the aggregate root. It is the only place derived amounts are
// computed; callers read them through Snapshot.
//
// Every mutation prices a candidate line set first and commits only on
// success, so a failed call leaves the quote exactly as it was.
// A Quote is not safe for concurrent use.
type Quote struct {
	id         string
	customerID string
	status     entities.QuoteStatus
	version    int
	lines      []pricing.PricedLine

	subtotal      decimal.Decimal
	totalDiscount decimal.Decimal
	grandTotal    decimal.Decimal

	createdAt time.Time
	updatedAt time.Time

	now   func() time.Time
	newID func() string
}

type Option func(*Quote)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(q *Quote) { q.now = now }
}

// WithIDGenerator overrides line id generation.
func WithIDGenerator(gen func() string) Option {
	return func(q *Quote) { q.newID = gen }
}

// New creates an empty draft quote.
func New(id, customerID string, opts ...Option) (*Quote, error) {
	id = strings.TrimSpace(id)
	customerID = strings.TrimSpace(customerID)
	if id == "" {
		return nil, fmt.Errorf("%w: quote id is required", entities.ErrInvalidInput)
	}
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", entities.ErrInvalidInput)
	}
	q := &Quote{
		id:            id,
		customerID:    customerID,
		status:        entities.QuoteStatusDraft,
		version:       1,
		subtotal:      decimal.Zero,
		totalDiscount: decimal.Zero,
		grandTotal:    decimal.Zero,
	}
	q.apply(opts)
	q.createdAt = q.now()
	q.updatedAt = q.createdAt
	return q, nil
}

// Restore rebuilds an aggregate from a stored snapshot without repricing it.
func Restore(s entities.Quote, opts ...Option) (*Quote, error) {
	if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.CustomerID) == "" {
		return nil, fmt.Errorf("%w: snapshot lacks id or customer id", entities.ErrInvalidInput)
	}
	switch s.Status {
	case entities.QuoteStatusDraft, entities.QuoteStatusFinalized:
	default:
		return nil, fmt.Errorf("%w: unknown quote status %q", entities.ErrInvalidInput, s.Status)
	}
	q := &Quote{
		id:            s.ID,
		customerID:    s.CustomerID,
		status:        s.Status,
		version:       s.Version,
		lines:         make([]pricing.PricedLine, 0, len(s.LineItems)),
		subtotal:      s.Subtotal,
		totalDiscount: s.TotalDiscount,
		grandTotal:    s.GrandTotal,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
	for _, li := range s.LineItems {
		q.lines = append(q.lines, pricing.PricedLine{
			LineID:    li.ID,
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Discount:  li.DiscountApplied,
			LineTotal: li.LineTotal,
		})
	}
	q.apply(opts)
	return q, nil
}

func (q *Quote) apply(opts []Option) {
	q.now = func() time.Time { return time.Now().UTC() }
	q.newID = uuid.NewString
	for _, o := range opts {
		o(q)
	}
}

func (q *Quote) ID() string                   { return q.id }
func (q *Quote) CustomerID() string           { return q.customerID }
func (q *Quote) Status() entities.QuoteStatus { return q.status }
func (q *Quote) Version() int                 { return q.version }

// AddLine appends a line for productID and reprices the quote. It returns the
// new line id.
func (q *Quote) AddLine(p Pricer, productID string, quantity int) (string, error) {
	if err := q.ensureDraft(); err != nil {
		return "", err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", fmt.Errorf("%w: product id is required", entities.ErrInvalidInput)
	}
	if err := validateQuantity(quantity); err != nil {
		return "", err
	}
	lineID := q.newID()
	candidate := append(q.inputs(), pricing.LineInput{LineID: lineID, ProductID: productID, Quantity: quantity})
	if err := q.recompute(p, candidate); err != nil {
		return "", err
	}
	return lineID, nil
}

// SetQuantity changes the quantity of an existing line and reprices the quote.
func (q *Quote) SetQuantity(p Pricer, lineID string, quantity int) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	idx, err := q.indexOf(lineID)
	if err != nil {
		return err
	}
	candidate := q.inputs()
	candidate[idx].Quantity = quantity
	return q.recompute(p, candidate)
}

// RemoveLine drops a line and reprices the quote. Removing the last line
// leaves a valid zero-value quote.
func (q *Quote) RemoveLine(p Pricer, lineID string) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	idx, err := q.indexOf(lineID)
	if err != nil {
		return err
	}
	inputs := q.inputs()
	candidate := append(inputs[:idx:idx], inputs[idx+1:]...)
	return q.recompute(p, candidate)
}

// Finalize locks the quote. Totals are already consistent, so nothing is
// repriced.
func (q *Quote) Finalize() error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	q.status = entities.QuoteStatusFinalized
	q.version++
	q.updatedAt = q.now()
	return nil
}

// Snapshot returns a deep copy of the current state.
func (q *Quote) Snapshot() entities.Quote {
	items := make([]entities.LineItem, 0, len(q.lines))
	for _, l := range q.lines {
		items = append(items, entities.LineItem{
			ID:              l.LineID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountApplied: l.Discount,
			LineTotal:       l.LineTotal,
		})
	}
	return entities.Quote{
		ID:            q.id,
		CustomerID:    q.customerID,
		LineItems:     items,
		Subtotal:      q.subtotal,
		TotalDiscount: q.totalDiscount,
		GrandTotal:    q.grandTotal,
		Status:        q.status,
		Version:       q.version,
		CreatedAt:     q.createdAt,
		UpdatedAt:     q.updatedAt,
	}
}

func (q *Quote) recompute(p Pricer, candidate []pricing.LineInput) error {
	priced, err := p.Price(candidate)
	if err != nil {
		return err
	}
	q.lines = priced
	q.subtotal, q.totalDiscount, q.grandTotal = pricing.Totals(priced)
	q.version++
	q.updatedAt = q.now()
	return nil
}

func (q *Quote) inputs() []pricing.LineInput {
	out := make([]pricing.LineInput, len(q.lines), len(q.lines)+1)
	for i, l := range q.lines {
		out[i] = pricing.LineInput{LineID: l.LineID, ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

func (q *Quote) indexOf(lineID string) (int, error) {
	lineID = strings.TrimSpace(lineID)
	for i, l := range q.lines {
		if l.LineID == lineID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: line %q in quote %q", entities.ErrNotFound, lineID, q.id)
}

func (q *Quote) ensureDraft() error {
	if q.status != entities.QuoteStatusDraft {
		return fmt.Errorf("%w: quote %q is %s", entities.ErrInvalidState, q.id, q.status)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidInput, quantity)
	}
	return nil
}
