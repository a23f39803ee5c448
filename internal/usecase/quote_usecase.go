package usecase

import (
	"context"
	"fmt"
	"strings"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"
	"cpq_engine/internal/domain/quote"
	"cpq_engine/internal/infrastructure/logger"
	"cpq_engine/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotFound     = fmt.Errorf("quote %w", entities.ErrNotFound)
	ErrInvalidQuoteID    = fmt.Errorf("%w: quote id is required", entities.ErrInvalidInput)
	ErrInvalidCustomerID = fmt.Errorf("%w: customer id is required", entities.ErrInvalidInput)
)

// IQuoteUseCase is the quote manager: the only entry point that mutates quotes.
//
// Every mutation returns the full updated quote. Errors wrap the
// entities taxonomy (ErrNotFound, ErrInvalidInput, ErrTierResolution,
// ErrInvalidState); a failed mutation leaves the stored quote untouched.

type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, customerID string) (entities.Quote, error)
	GetQuote(ctx context.Context, id string) (entities.Quote, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Quote, error)
	AddLine(ctx context.Context, quoteID, productID string, quantity int) (entities.Quote, error)
	SetQuantity(ctx context.Context, quoteID, lineID string, quantity int) (entities.Quote, error)
	RemoveLine(ctx context.Context, quoteID, lineID string) (entities.Quote, error)
	Finalize(ctx context.Context, quoteID string) (entities.Quote, error)
}

type QuoteUseCase struct {
	repo      interfaces.IQuoteRepository
	catalog   *pricing.CatalogStore
	discounts *pricing.DiscountEngine
	locks     *quoteLocks
	log       *logger.Logger
	opts      []quote.Option
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, catalog *pricing.CatalogStore, rules pricing.RuleTable, log *logger.Logger, opts ...quote.Option) *QuoteUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &QuoteUseCase{
		repo:      repo,
		catalog:   catalog,
		discounts: pricing.NewDiscountEngine(rules),
		locks:     newQuoteLocks(),
		log:       log,
		opts:      opts,
	}
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, customerID string) (entities.Quote, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return entities.Quote{}, ErrInvalidCustomerID
	}

	q, err := quote.New(uuid.NewString(), customerID, u.opts...)
	if err != nil {
		return entities.Quote{}, err
	}
	s := q.Snapshot()
	if err := u.repo.Save(ctx, s); err != nil {
		u.log.Error("[quote][usecase] create save failed", "customer_id", customerID, "err", err)
		return entities.Quote{}, err
	}
	u.log.Info("[quote][usecase] create success", "quote_id", s.ID, "customer_id", customerID)
	return s, nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if s.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return s, nil
}

func (u *QuoteUseCase) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Quote, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return u.repo.ListByCustomerID(ctx, customerID)
}

func (u *QuoteUseCase) AddLine(ctx context.Context, quoteID, productID string, quantity int) (entities.Quote, error) {
	return u.mutate(ctx, "add-line", quoteID, func(q *quote.Quote, engine *pricing.Engine) error {
		lineID, err := q.AddLine(engine, productID, quantity)
		if err == nil {
			u.log.Debug("[quote][usecase] line added", "quote_id", q.ID(), "line_id", lineID, "product_id", productID, "quantity", quantity)
		}
		return err
	})
}

func (u *QuoteUseCase) SetQuantity(ctx context.Context, quoteID, lineID string, quantity int) (entities.Quote, error) {
	return u.mutate(ctx, "set-quantity", quoteID, func(q *quote.Quote, engine *pricing.Engine) error {
		return q.SetQuantity(engine, lineID, quantity)
	})
}

func (u *QuoteUseCase) RemoveLine(ctx context.Context, quoteID, lineID string) (entities.Quote, error) {
	return u.mutate(ctx, "remove-line", quoteID, func(q *quote.Quote, engine *pricing.Engine) error {
		return q.RemoveLine(engine, lineID)
	})
}

func (u *QuoteUseCase) Finalize(ctx context.Context, quoteID string) (entities.Quote, error) {
	return u.mutate(ctx, "finalize", quoteID, func(q *quote.Quote, _ *pricing.Engine) error {
		return q.Finalize()
	})
}

// mutate serializes operations on one quote: load, apply against a single
// catalog snapshot, save. Nothing is saved when fn fails.
func (u *QuoteUseCase) mutate(ctx context.Context, op, quoteID string, fn func(q *quote.Quote, engine *pricing.Engine) error) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	unlock := u.locks.lock(quoteID)
	defer unlock()

	stored, err := u.repo.GetByID(ctx, quoteID)
	if err != nil {
		u.log.Error("[quote][usecase] load failed", "op", op, "quote_id", quoteID, "err", err)
		return entities.Quote{}, err
	}
	if stored.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}

	q, err := quote.Restore(stored, u.opts...)
	if err != nil {
		return entities.Quote{}, err
	}
	engine := pricing.NewEngine(u.catalog.Snapshot(), u.discounts)
	if err := fn(q, engine); err != nil {
		u.log.Warn("[quote][usecase] mutation rejected", "op", op, "quote_id", quoteID, "err", err)
		return entities.Quote{}, err
	}

	out := q.Snapshot()
	if err := u.repo.Save(ctx, out); err != nil {
		u.log.Error("[quote][usecase] save failed", "op", op, "quote_id", quoteID, "err", err)
		return entities.Quote{}, err
	}
	u.log.Info("[quote][usecase] mutation success", "op", op, "quote_id", quoteID,
		"lines", len(out.LineItems), "grand_total", out.GrandTotal.StringFixed(2), "status", out.Status)
	return out, nil
}
