package interfaces

import (
	"context"
	"cpq_engine/internal/domain/entities"
)

// IQuoteRepository persists quote snapshots.
//
// The quote service must be able to:
//   - save a quote after every successful mutation. Version 1 creates the
//     quote; any later version replaces the stored draft only when it is
//     exactly one ahead of it. Anything else fails with entities.ErrConflict.
//   - load a quote by id (zero Quote when missing)
//   - list the quotes of a customer

type IQuoteRepository interface {
	Save(ctx context.Context, q entities.Quote) error
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Quote, error)
}
