package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

//go:embed seed_catalog.json
var seedCatalog []byte

type tierDocument struct {
	Name   string          `json:"name"`
	MinQty int             `json:"min_qty"`
	MaxQty *int            `json:"max_qty"`
	Price  decimal.Decimal `json:"price"`
}

type productDocument struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	PricingType string          `json:"pricing_type"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Tiers       []tierDocument  `json:"tiers"`
}

type catalogDocument struct {
	Products []productDocument `json:"products"`
}

// FileCatalogProvider loads products from a JSON document. An empty path
// serves the embedded seed catalog.
type FileCatalogProvider struct {
	path string
}

var _ interfaces.ICatalogProvider = (*FileCatalogProvider)(nil)

func NewFileCatalogProvider(path string) *FileCatalogProvider {
	return &FileCatalogProvider{path: path}
}

func (p *FileCatalogProvider) LoadProducts(ctx context.Context) ([]entities.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := seedCatalog
	if p.path != "" {
		b, err := os.ReadFile(p.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		raw = b
	}
	return DecodeProducts(raw)
}

// DecodeProducts parses a catalog document, preserving product order.
func DecodeProducts(raw []byte) ([]entities.Product, error) {
	var doc catalogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: catalog json: %v", entities.ErrInvalidInput, err)
	}
	out := make([]entities.Product, 0, len(doc.Products))
	for _, d := range doc.Products {
		category, err := entities.ParseCategory(d.Category)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", d.ID, err)
		}
		pricingType, err := entities.ParsePricingType(d.PricingType)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", d.ID, err)
		}
		tiers := make([]entities.Tier, 0, len(d.Tiers))
		for _, t := range d.Tiers {
			tiers = append(tiers, entities.Tier{Name: t.Name, MinQty: t.MinQty, MaxQty: t.MaxQty, Price: t.Price})
		}
		out = append(out, entities.Product{
			ID:          d.ID,
			SKU:         d.SKU,
			Name:        d.Name,
			Description: d.Description,
			Category:    category,
			PricingType: pricingType,
			BasePrice:   d.BasePrice,
			Tiers:       tiers,
		})
	}
	return out, nil
}
