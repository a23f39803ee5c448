package request

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestCreateQuoteRequest_ResolveCustomerID(t *testing.T) {
	if got := (CreateQuoteRequest{CustomerID: " cust-1 "}).ResolveCustomerID(); got != "cust-1" {
		t.Fatalf("expected cust-1, got %q", got)
	}
	if got := (CreateQuoteRequest{CustomerID: "   "}).ResolveCustomerID(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestAddLineRequest_Resolve(t *testing.T) {
	r := AddLineRequest{ProductID: " P1 ", Quantity: intPtr(3)}
	if got := r.ResolveProductID(); got != "P1" {
		t.Fatalf("expected P1, got %q", got)
	}
	qty, err := r.ResolveQuantity()
	if err != nil || qty != 3 {
		t.Fatalf("unexpected quantity: %d %v", qty, err)
	}

	for _, q := range []*int{nil, intPtr(0), intPtr(-4)} {
		if _, err := (AddLineRequest{ProductID: "P1", Quantity: q}).ResolveQuantity(); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	}
}

func TestSetQuantityRequest_Resolve(t *testing.T) {
	qty, err := (SetQuantityRequest{Quantity: intPtr(12)}).ResolveQuantity()
	if err != nil || qty != 12 {
		t.Fatalf("unexpected quantity: %d %v", qty, err)
	}
	if _, err := (SetQuantityRequest{}).ResolveQuantity(); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestPriceCalculationRequest_ResolveLines(t *testing.T) {
	req := PriceCalculationRequest{Lines: []PriceLineRequest{{ProductID: " P1 ", Quantity: intPtr(1)}}}
	lines, err := req.ResolveLines()
	if err != nil || len(lines) != 1 || lines[0].ProductID != "P1" || lines[0].Quantity != 1 {
		t.Fatalf("unexpected lines: %+v %v", lines, err)
	}

	req.Lines = append(req.Lines, PriceLineRequest{ProductID: "P2", Quantity: intPtr(0)})
	if _, err := req.ResolveLines(); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
