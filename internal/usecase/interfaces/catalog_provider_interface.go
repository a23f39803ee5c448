package interfaces

import (
	"context"
	"cpq_engine/internal/domain/entities"
)

// ICatalogProvider supplies a full catalog snapshot in load order.
// The result is treated as trusted; tier sets are not validated at load.
type ICatalogProvider interface {
	LoadProducts(ctx context.Context) ([]entities.Product, error)
}
