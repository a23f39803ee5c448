package usecase

import (
	"context"
	"errors"
	"strings"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"
	"cpq_engine/internal/infrastructure/logger"
	"cpq_engine/internal/usecase/interfaces"
)

var ErrCatalogProviderNotConfigured = errors.New("catalog provider not configured")

// ICatalogUseCase exposes read access to the published catalog and reloads it
// from the configured provider.

type ICatalogUseCase interface {
	ListProducts(ctx context.Context, category string) ([]entities.Product, error)
	GetProduct(ctx context.Context, id string) (entities.Product, error)
	Reload(ctx context.Context) (int, error)
}

type CatalogUseCase struct {
	store    *pricing.CatalogStore
	provider interfaces.ICatalogProvider
	log      *logger.Logger
}

var _ ICatalogUseCase = (*CatalogUseCase)(nil)

func NewCatalogUseCase(store *pricing.CatalogStore, provider interfaces.ICatalogProvider, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogUseCase{store: store, provider: provider, log: log}
}

// ListProducts returns the whole catalog for an empty category, otherwise the
// products of that category. Both keep catalog load order.
func (u *CatalogUseCase) ListProducts(_ context.Context, category string) ([]entities.Product, error) {
	snap := u.store.Snapshot()
	if strings.TrimSpace(category) == "" || strings.EqualFold(strings.TrimSpace(category), "all") {
		return snap.List(), nil
	}
	c, err := entities.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return snap.ListByCategory(c), nil
}

func (u *CatalogUseCase) GetProduct(_ context.Context, id string) (entities.Product, error) {
	return u.store.Snapshot().GetProduct(id)
}

// Reload loads a fresh catalog and publishes it atomically. A failed load
// keeps the current catalog.
func (u *CatalogUseCase) Reload(ctx context.Context) (int, error) {
	if u.provider == nil {
		return 0, ErrCatalogProviderNotConfigured
	}
	u.log.Info("[catalog][usecase] reload start")
	products, err := u.provider.LoadProducts(ctx)
	if err != nil {
		u.log.Error("[catalog][usecase] provider load failed", "err", err)
		return 0, err
	}
	c, err := u.store.Replace(products)
	if err != nil {
		u.log.Error("[catalog][usecase] snapshot rejected", "err", err)
		return 0, err
	}
	u.log.Info("[catalog][usecase] reload success", "products", c.Len())
	return c.Len(), nil
}
