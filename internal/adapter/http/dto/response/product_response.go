package response

import "cpq_engine/internal/domain/entities"

type TierResponse struct {
	Name   string `json:"name"`
	MinQty int    `json:"min_qty"`
	MaxQty *int   `json:"max_qty"`
	Price  string `json:"price"`
}

type ProductResponse struct {
	ID          string         `json:"id"`
	SKU         string         `json:"sku"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	PricingType string         `json:"pricing_type"`
	BasePrice   string         `json:"base_price"`
	Tiers       []TierResponse `json:"tiers"`
}

func FromProduct(p entities.Product) ProductResponse {
	tiers := make([]TierResponse, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		tiers = append(tiers, TierResponse{Name: t.Name, MinQty: t.MinQty, MaxQty: t.MaxQty, Price: t.Price.StringFixed(2)})
	}
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		PricingType: string(p.PricingType),
		BasePrice:   p.BasePrice.StringFixed(2),
		Tiers:       tiers,
	}
}

func FromProducts(ps []entities.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProduct(p))
	}
	return out
}

// CatalogReloadResponse reports the size of the newly published catalog.
type CatalogReloadResponse struct {
	Products int `json:"products"`
}
