package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"cpq_engine/internal/adapter/http/handlers/mocks"
	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func pricingRouter(h *PricingHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/pricing/calculate", h.Calculate)
	return r
}

func TestPricingHandler_Calculate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payloads", func(t *testing.T) {
		for _, body := range []string{"{", `{}`, `{"lines":[]}`, `{"lines":[{"product_id":"ent-core"}]}`, `{"lines":[{"product_id":"ent-core","quantity":0}]}`} {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIPricingUseCase(ctrl)
			r := pricingRouter(NewPricingHandler(uc))

			w := serve(r, http.MethodPost, "/v1/pricing/calculate", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", body, w.Code)
			}
			ctrl.Finish()
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPricingUseCase(ctrl)
		r := pricingRouter(NewPricingHandler(uc))

		uc.EXPECT().Calculate(gomock.Any(), []pricing.LineInput{
			{ProductID: "ent-core", Quantity: 12},
			{ProductID: "ai-assistant", Quantity: 1},
		}).Return(pricing.Calculation{
			Lines: []pricing.PricedLine{
				{LineID: "1", ProductID: "ent-core", Quantity: 12, TierName: "10-49 seats", UnitPrice: decimal.RequireFromString("90"), Discount: decimal.Zero, LineTotal: decimal.RequireFromString("1080")},
				{LineID: "2", ProductID: "ai-assistant", Quantity: 1, UnitPrice: decimal.RequireFromString("20"), Discount: decimal.RequireFromString("2"), LineTotal: decimal.RequireFromString("18")},
			},
			Subtotal:      decimal.RequireFromString("1100"),
			TotalDiscount: decimal.RequireFromString("2"),
			GrandTotal:    decimal.RequireFromString("1098"),
		}, nil)

		w := serve(r, http.MethodPost, "/v1/pricing/calculate", `{"lines":[{"product_id":"ent-core","quantity":12},{"product_id":" ai-assistant ","quantity":1}]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			GrandTotal string `json:"grand_total"`
			Lines      []struct {
				TierName        string `json:"tier_name"`
				UnitPrice       string `json:"unit_price"`
				DiscountApplied string `json:"discount_applied"`
			} `json:"lines"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.GrandTotal != "1098.00" || len(body.Lines) != 2 || body.Lines[0].TierName != "10-49 seats" || body.Lines[0].UnitPrice != "90.00" || body.Lines[1].DiscountApplied != "2.00" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})

	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"unknown product", fmt.Errorf("%w: product %q", entities.ErrNotFound, "ghost"), http.StatusNotFound, "NOT_FOUND"},
		{"no tier", &pricing.TierResolutionError{ProductID: "capped", Quantity: 6}, http.StatusUnprocessableEntity, "TIER_RESOLUTION_ERROR"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIPricingUseCase(ctrl)
			r := pricingRouter(NewPricingHandler(uc))

			uc.EXPECT().Calculate(gomock.Any(), gomock.Any()).Return(pricing.Calculation{}, tc.err)

			w := serve(r, http.MethodPost, "/v1/pricing/calculate", `{"lines":[{"product_id":"x","quantity":6}]}`)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, w.Code)
			}
			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["code"] != tc.body {
				t.Fatalf("unexpected response body: %s", w.Body.String())
			}
		})
	}
}
