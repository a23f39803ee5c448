package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"cpq_engine/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

func sampleQuote(id, customer string, created time.Time) entities.Quote {
	return entities.Quote{
		ID:         id,
		CustomerID: customer,
		LineItems: []entities.LineItem{
			{ID: "l1", ProductID: "P1", Quantity: 12, UnitPrice: decimal.RequireFromString("90"), DiscountApplied: decimal.Zero, LineTotal: decimal.RequireFromString("1080")},
			{ID: "l2", ProductID: "P2", Quantity: 1, UnitPrice: decimal.RequireFromString("20"), DiscountApplied: decimal.RequireFromString("2"), LineTotal: decimal.RequireFromString("18")},
		},
		Subtotal:      decimal.RequireFromString("1100"),
		TotalDiscount: decimal.RequireFromString("2"),
		GrandTotal:    decimal.RequireFromString("1098"),
		Status:        entities.QuoteStatusDraft,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestQuoteMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, sampleQuote("q-2", "c-1", base.Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, sampleQuote("q-1", "c-1", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, sampleQuote("q-3", "c-2", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, "q-1")
	if err != nil || got.ID != "q-1" {
		t.Fatalf("unexpected get: %+v %v", got, err)
	}
	got.LineItems[0].Quantity = 999
	again, _ := repo.GetByID(ctx, "q-1")
	if again.LineItems[0].Quantity != 12 {
		t.Fatalf("stored quote was aliased")
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing.ID != "" {
		t.Fatalf("expected zero quote, got %+v %v", missing, err)
	}

	list, err := repo.ListByCustomerID(ctx, "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "q-1" || list[1].ID != "q-2" {
		t.Fatalf("unexpected list order: %+v", list)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := repo.Save(cctx, sampleQuote("q-9", "c-1", base)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQuoteMemoryRepository_VersionedWrites(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create twice conflicts", func(t *testing.T) {
		repo := NewQuoteMemoryRepository()
		q := sampleQuote("q-1", "c-1", base)
		q.Version = 1
		if err := repo.Save(ctx, q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Save(ctx, q); !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("update must advance by one", func(t *testing.T) {
		repo := NewQuoteMemoryRepository()
		q := sampleQuote("q-1", "c-1", base)
		q.Version = 1
		_ = repo.Save(ctx, q)

		q.Version = 3
		if err := repo.Save(ctx, q); !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("expected ErrConflict for skipped version, got %v", err)
		}
		missing := sampleQuote("q-9", "c-1", base)
		missing.Version = 2
		if err := repo.Save(ctx, missing); !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("expected ErrConflict for unknown quote, got %v", err)
		}
		q.Version = 2
		if err := repo.Save(ctx, q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stale draft cannot overwrite finalized quote", func(t *testing.T) {
		repo := NewQuoteMemoryRepository()
		loaded := sampleQuote("q-1", "c-1", base)
		loaded.Version = 1
		_ = repo.Save(ctx, loaded)

		finalized := loaded.Clone()
		finalized.Status = entities.QuoteStatusFinalized
		finalized.Version = 2
		if err := repo.Save(ctx, finalized); err != nil {
			t.Fatalf("finalize: %v", err)
		}

		staleDraft := loaded.Clone()
		staleDraft.LineItems = append(staleDraft.LineItems, entities.LineItem{ID: "l3", ProductID: "P2", Quantity: 1})
		staleDraft.Version = 2
		if err := repo.Save(ctx, staleDraft); !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		finalized.Version = 3
		if err := repo.Save(ctx, finalized); !errors.Is(err, entities.ErrConflict) {
			t.Fatalf("finalized quote must not accept writes, got %v", err)
		}

		got, _ := repo.GetByID(ctx, "q-1")
		if got.Status != entities.QuoteStatusFinalized || len(got.LineItems) != 2 || got.Version != 2 {
			t.Fatalf("finalized quote was overwritten: %+v", got)
		}
	})
}

func TestSaveCondition(t *testing.T) {
	cond, names, values := saveCondition(entities.Quote{ID: "q-1", Version: 1})
	if cond != "attribute_not_exists(#id)" || names["#id"] != "id" || values != nil {
		t.Fatalf("unexpected create condition: %s %v %v", cond, names, values)
	}

	cond, names, values = saveCondition(entities.Quote{ID: "q-1", Version: 5})
	if cond != "#version = :expected AND #status = :draft" || names["#version"] != "version" || names["#status"] != "status" {
		t.Fatalf("unexpected update condition: %s %v", cond, names)
	}
	expected, ok := values[":expected"].(*types.AttributeValueMemberN)
	if !ok || expected.Value != "4" {
		t.Fatalf("expected previous version 4, got %#v", values[":expected"])
	}
	draft, ok := values[":draft"].(*types.AttributeValueMemberS)
	if !ok || draft.Value != "draft" {
		t.Fatalf("expected draft status guard, got %#v", values[":draft"])
	}
}

func TestQuoteItem_AttributeRoundTripKeepsMoneyExact(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	q := sampleQuote("q-1", "c-1", created)
	q.Version = 7
	q.LineItems[1].UnitPrice = decimal.RequireFromString("19.99")

	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := fromQuoteItem(it)
	if err != nil {
		t.Fatalf("fromQuoteItem: %v", err)
	}
	if !back.LineItems[1].UnitPrice.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("unit price drifted: %s", back.LineItems[1].UnitPrice)
	}
	if !back.GrandTotal.Equal(q.GrandTotal) || back.Status != q.Status || back.Version != 7 || !back.CreatedAt.Equal(created) {
		t.Fatalf("unexpected quote: %+v", back)
	}
	if len(back.LineItems) != 2 || back.LineItems[0].ID != "l1" {
		t.Fatalf("line order lost: %+v", back.LineItems)
	}
}

func TestFromQuoteItem_BadMoney(t *testing.T) {
	it := toQuoteItem(sampleQuote("q", "c", time.Now().UTC()))
	it.Subtotal = "abc"
	if _, err := fromQuoteItem(it); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFromQuoteItem_BadTimestamp(t *testing.T) {
	for _, field := range []string{"created_at", "updated_at"} {
		it := toQuoteItem(sampleQuote("q", "c", time.Now().UTC()))
		if field == "created_at" {
			it.CreatedAt = "yesterday"
		} else {
			it.UpdatedAt = ""
		}
		if _, err := fromQuoteItem(it); err == nil {
			t.Fatalf("expected %s parse error", field)
		}
	}
}

func TestFromProductItem(t *testing.T) {
	p, err := fromProductItem(productItem{
		ID:          "ent",
		Category:    "enterprise_license",
		PricingType: "per_seat",
		BasePrice:   "100.00",
		Tiers: []tierAttr{
			{Name: "1-9", MinQty: 1, MaxQty: entities.IntPtr(9), Price: "100.00"},
			{Name: "10+", MinQty: 10, Price: "90.00"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Tiers) != 2 || p.Tiers[1].MaxQty != nil || !p.Tiers[1].Price.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := fromProductItem(productItem{ID: "x", Category: "gpu", PricingType: "flat"}); !errors.Is(err, entities.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
