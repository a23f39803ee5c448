package request

import (
	"errors"
	"strings"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// CreateQuoteRequest opens an empty draft quote for a customer.
type CreateQuoteRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

func (r CreateQuoteRequest) ResolveCustomerID() string {
	return strings.TrimSpace(r.CustomerID)
}

// AddLineRequest adds a product/quantity pairing to a quote.
type AddLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func (r AddLineRequest) ResolveProductID() string {
	return strings.TrimSpace(r.ProductID)
}

func (r AddLineRequest) ResolveQuantity() (int, error) {
	return resolveQuantity(r.Quantity)
}

// SetQuantityRequest resizes an existing quote line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (r SetQuantityRequest) ResolveQuantity() (int, error) {
	return resolveQuantity(r.Quantity)
}

func resolveQuantity(q *int) (int, error) {
	if q == nil || *q < 1 {
		return 0, ErrInvalidQuantity
	}
	return *q, nil
}
