package repository

import (
	"context"
	"sort"
	"sync"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase/interfaces"
)

// QuoteMemoryRepository keeps quote snapshots in process memory. Stored and
// returned values are deep copies. Save applies the same version checks as the
// DynamoDB repository.
type QuoteMemoryRepository struct {
	mu     sync.RWMutex
	quotes map[string]entities.Quote
}

var _ interfaces.IQuoteRepository = (*QuoteMemoryRepository)(nil)

func NewQuoteMemoryRepository() *QuoteMemoryRepository {
	return &QuoteMemoryRepository{quotes: make(map[string]entities.Quote)}
}

func (r *QuoteMemoryRepository) Save(ctx context.Context, q entities.Quote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, exists := r.quotes[q.ID]
	if q.Version <= 1 {
		if exists {
			return quoteConflict(q.ID, q.Version)
		}
	} else if !exists || cur.Version != q.Version-1 || cur.Status != entities.QuoteStatusDraft {
		return quoteConflict(q.ID, q.Version)
	}
	r.quotes[q.ID] = q.Clone()
	return nil
}

func (r *QuoteMemoryRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entities.Quote{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	return q.Clone(), nil
}

// ListByCustomerID returns the customer's quotes oldest first.
func (r *QuoteMemoryRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]entities.Quote, 0)
	for _, q := range r.quotes {
		if q.CustomerID == customerID {
			out = append(out, q.Clone())
		}
	}
	r.mu.RUnlock()
	sortQuotes(out)
	return out, nil
}

func sortQuotes(qs []entities.Quote) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].CreatedAt.Equal(qs[j].CreatedAt) {
			return qs[i].ID < qs[j].ID
		}
		return qs[i].CreatedAt.Before(qs[j].CreatedAt)
	})
}
