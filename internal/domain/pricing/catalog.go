package pricing

import (
	"fmt"
	"strings"
	"sync/atomic"

	"cpq_engine/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Catalog is an immutable snapshot of product definitions.
//
// Products are deep-copied on construction and on every read, so nothing a
// caller does with a returned Product can alter the snapshot.
type Catalog struct {
	products []entities.Product
	byID     map[string]int
}

// NewCatalog builds a snapshot preserving load order. Duplicate or empty ids,
// unknown categories and prices that are negative or finer than a cent are
// rejected; tier ranges are not validated here.
func NewCatalog(products []entities.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]entities.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: product id is required", entities.ErrInvalidInput)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", entities.ErrInvalidInput, id)
		}
		if _, err := entities.ParseCategory(string(p.Category)); err != nil {
			return nil, fmt.Errorf("product %q: %w", id, err)
		}
		if err := validatePrice(p.BasePrice); err != nil {
			return nil, fmt.Errorf("product %q base price: %w", id, err)
		}
		for _, t := range p.Tiers {
			if err := validatePrice(t.Price); err != nil {
				return nil, fmt.Errorf("product %q tier %q: %w", id, t.Name, err)
			}
		}
		cp := p.Clone()
		cp.ID = id
		c.byID[id] = len(c.products)
		c.products = append(c.products, cp)
	}
	return c, nil
}

// validatePrice keeps every catalog price a non-negative amount with at most two
// fractional digits, so line values and totals stay in whole cents.
func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: price %s is negative", entities.ErrInvalidInput, p)
	}
	if !p.Equal(p.Round(2)) {
		return fmt.Errorf("%w: price %s has more than two decimal places", entities.ErrInvalidInput, p)
	}
	return nil
}

// EmptyCatalog is the snapshot a store starts with before the first load.
func EmptyCatalog() *Catalog {
	return &Catalog{byID: map[string]int{}}
}

func (c *Catalog) GetProduct(id string) (entities.Product, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return entities.Product{}, fmt.Errorf("%w: product %q", entities.ErrNotFound, id)
	}
	return c.products[idx].Clone(), nil
}

// ListByCategory returns products of the category in catalog load order.
func (c *Catalog) ListByCategory(category entities.Category) []entities.Product {
	out := make([]entities.Product, 0)
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (c *Catalog) List() []entities.Product {
	out := make([]entities.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.Clone())
	}
	return out
}

func (c *Catalog) Len() int { return len(c.products) }

// CatalogStore publishes catalog snapshots. A reload swaps the whole snapshot,
// so concurrent readers see either the old catalog or the new one.
type CatalogStore struct {
	current atomic.Pointer[Catalog]
}

func NewCatalogStore(initial *Catalog) *CatalogStore {
	s := &CatalogStore{}
	if initial == nil {
		initial = EmptyCatalog()
	}
	s.current.Store(initial)
	return s
}

// Snapshot returns the currently published catalog. Callers should take one
// snapshot per operation and use it throughout.
func (s *CatalogStore) Snapshot() *Catalog {
	return s.current.Load()
}

// Replace builds a snapshot from products and publishes it. On error the
// previous snapshot stays published.
func (s *CatalogStore) Replace(products []entities.Product) (*Catalog, error) {
	c, err := NewCatalog(products)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}
