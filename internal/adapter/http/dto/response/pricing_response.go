package response

import "cpq_engine/internal/domain/pricing"

type PricedLineResponse struct {
	LineID          string `json:"line_id"`
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	TierName        string `json:"tier_name,omitempty"`
	UnitPrice       string `json:"unit_price"`
	DiscountApplied string `json:"discount_applied"`
	LineTotal       string `json:"line_total"`
}

type PriceCalculationResponse struct {
	Lines         []PricedLineResponse `json:"lines"`
	Subtotal      string               `json:"subtotal"`
	TotalDiscount string               `json:"total_discount"`
	GrandTotal    string               `json:"grand_total"`
}

func FromCalculation(c pricing.Calculation) PriceCalculationResponse {
	lines := make([]PricedLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, PricedLineResponse{
			LineID:          l.LineID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			TierName:        l.TierName,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			DiscountApplied: l.Discount.StringFixed(2),
			LineTotal:       l.LineTotal.StringFixed(2),
		})
	}
	return PriceCalculationResponse{
		Lines:         lines,
		Subtotal:      c.Subtotal.StringFixed(2),
		TotalDiscount: c.TotalDiscount.StringFixed(2),
		GrandTotal:    c.GrandTotal.StringFixed(2),
	}
}
