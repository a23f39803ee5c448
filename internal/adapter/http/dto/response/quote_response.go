package response

import (
	"cpq_engine/internal/domain/entities"
	"time"
)

// Money values are fixed two-place decimal strings so no client ever parses
// them as binary floats.

type LineItemResponse struct {
	LineID          string `json:"line_id"`
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	DiscountApplied string `json:"discount_applied"`
	LineTotal       string `json:"line_total"`
}

type QuoteResponse struct {
	QuoteID       string             `json:"quote_id"`
	CustomerID    string             `json:"customer_id"`
	LineItems     []LineItemResponse `json:"line_items"`
	Subtotal      string             `json:"subtotal"`
	TotalDiscount string             `json:"total_discount"`
	GrandTotal    string             `json:"grand_total"`
	Status        string             `json:"status"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	lines := make([]LineItemResponse, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		lines = append(lines, LineItemResponse{
			LineID:          li.ID,
			ProductID:       li.ProductID,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice.StringFixed(2),
			DiscountApplied: li.DiscountApplied.StringFixed(2),
			LineTotal:       li.LineTotal.StringFixed(2),
		})
	}
	return QuoteResponse{
		QuoteID:       q.ID,
		CustomerID:    q.CustomerID,
		LineItems:     lines,
		Subtotal:      q.Subtotal.StringFixed(2),
		TotalDiscount: q.TotalDiscount.StringFixed(2),
		GrandTotal:    q.GrandTotal.StringFixed(2),
		Status:        string(q.Status),
		Version:       q.Version,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func FromQuotes(qs []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuote(q))
	}
	return out
}
