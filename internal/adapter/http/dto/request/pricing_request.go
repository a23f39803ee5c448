package request

import (
	"cpq_engine/internal/domain/pricing"
	"strings"
)

// PriceLineRequest is one product/quantity pairing to price.
type PriceLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// PriceCalculationRequest prices lines without creating a quote.
type PriceCalculationRequest struct {
	Lines []PriceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r PriceCalculationRequest) ResolveLines() ([]pricing.LineInput, error) {
	out := make([]pricing.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		qty, err := resolveQuantity(l.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, pricing.LineInput{ProductID: strings.TrimSpace(l.ProductID), Quantity: qty})
	}
	return out, nil
}
