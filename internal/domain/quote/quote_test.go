package quote

import (
	"fmt"
	"testing"
	"time"

	"cpq_engine/internal/domain/entities"
	"cpq_engine/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testEngine(t *testing.T) *pricing.Engine {
	t.Helper()
	catalog, err := pricing.NewCatalog([]entities.Product{
		{
			ID:        "P1",
			Category:  entities.CategoryEnterpriseLicense,
			BasePrice: d("100"),
			Tiers: []entities.Tier{
				{MinQty: 1, MaxQty: entities.IntPtr(9), Price: d("100")},
				{MinQty: 10, MaxQty: entities.IntPtr(49), Price: d("90")},
				{MinQty: 50, Price: d("80")},
			},
		},
		{ID: "P2", Category: entities.CategoryAIAddon, BasePrice: d("20")},
		{
			ID:        "CAPPED",
			Category:  entities.CategoryEnterpriseLicense,
			BasePrice: d("50"),
			Tiers: []entities.Tier{
				{MinQty: 1, MaxQty: entities.IntPtr(10), Price: d("50")},
			},
		},
	})
	require.NoError(t, err)
	return pricing.NewEngine(catalog, pricing.NewDiscountEngine(pricing.DefaultRules(pricing.DefaultBundleRate)))
}

func newQuote(t *testing.T) *Quote {
	t.Helper()
	seq := 0
	q, err := New("q-1", "cust-1",
		WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("line-%d", seq) }),
	)
	require.NoError(t, err)
	return q
}

func assertConsistent(t *testing.T, s entities.Quote) {
	t.Helper()
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, li := range s.LineItems {
		value := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
		subtotal = subtotal.Add(value)
		discount = discount.Add(li.DiscountApplied)
		require.True(t, li.LineTotal.Equal(value.Sub(li.DiscountApplied)), "line %s total drifted", li.ID)
	}
	require.True(t, s.Subtotal.Equal(subtotal), "subtotal %s != %s", s.Subtotal, subtotal)
	require.True(t, s.TotalDiscount.Equal(discount))
	require.True(t, s.GrandTotal.Equal(s.Subtotal.Sub(s.TotalDiscount)))
}

func TestNew(t *testing.T) {
	q := newQuote(t)
	s := q.Snapshot()
	assert.Equal(t, entities.QuoteStatusDraft, s.Status)
	assert.Empty(t, s.LineItems)
	assert.True(t, s.GrandTotal.IsZero())
	assert.Equal(t, 1, s.Version)

	_, err := New("", "cust")
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = New("q", " ")
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestQuote_BundleExample(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)

	p1Line, err := q.AddLine(engine, "P1", 12)
	require.NoError(t, err)
	s := q.Snapshot()
	require.Len(t, s.LineItems, 1)
	assert.True(t, s.LineItems[0].UnitPrice.Equal(d("90")))
	assert.True(t, s.LineItems[0].LineTotal.Equal(d("1080")))

	_, err = q.AddLine(engine, "P2", 1)
	require.NoError(t, err)
	s = q.Snapshot()
	assertConsistent(t, s)
	assert.True(t, s.LineItems[1].DiscountApplied.Equal(d("2")))
	assert.True(t, s.LineItems[1].LineTotal.Equal(d("18")))
	assert.True(t, s.GrandTotal.Equal(d("1098")))

	require.NoError(t, q.RemoveLine(engine, p1Line))
	s = q.Snapshot()
	assertConsistent(t, s)
	require.Len(t, s.LineItems, 1)
	assert.Equal(t, "P2", s.LineItems[0].ProductID)
	assert.True(t, s.LineItems[0].LineTotal.Equal(d("20")))
	assert.True(t, s.GrandTotal.Equal(d("20")))
}

func TestQuote_InsertionOrderKept(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	for _, id := range []string{"P2", "P1", "P2"} {
		_, err := q.AddLine(engine, id, 1)
		require.NoError(t, err)
	}
	s := q.Snapshot()
	got := []string{s.LineItems[0].ProductID, s.LineItems[1].ProductID, s.LineItems[2].ProductID}
	assert.Equal(t, []string{"P2", "P1", "P2"}, got)
	assert.Equal(t, []string{"line-1", "line-2", "line-3"}, []string{s.LineItems[0].ID, s.LineItems[1].ID, s.LineItems[2].ID})
}

func TestQuote_RemoveLastLineYieldsZeroQuote(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	id, err := q.AddLine(engine, "P1", 3)
	require.NoError(t, err)
	require.NoError(t, q.RemoveLine(engine, id))

	s := q.Snapshot()
	assert.Empty(t, s.LineItems)
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.TotalDiscount.IsZero())
	assert.True(t, s.GrandTotal.IsZero())
}

func TestQuote_InputValidationLeavesStateUnchanged(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	id, err := q.AddLine(engine, "P1", 3)
	require.NoError(t, err)
	before := q.Snapshot()

	_, err = q.AddLine(engine, "P1", 0)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = q.AddLine(engine, "", 1)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	_, err = q.AddLine(engine, "ghost", 1)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.ErrorIs(t, q.SetQuantity(engine, id, -2), entities.ErrInvalidInput)
	assert.ErrorIs(t, q.SetQuantity(engine, "missing", 2), entities.ErrNotFound)
	assert.ErrorIs(t, q.RemoveLine(engine, "missing"), entities.ErrNotFound)

	assert.Equal(t, before, q.Snapshot())
}

func TestQuote_RollbackOnTierResolutionError(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	_, err := q.AddLine(engine, "P2", 2)
	require.NoError(t, err)
	capped, err := q.AddLine(engine, "CAPPED", 5)
	require.NoError(t, err)
	before := q.Snapshot()

	err = q.SetQuantity(engine, capped, 11)
	require.ErrorIs(t, err, entities.ErrTierResolution)
	assert.Equal(t, before, q.Snapshot())

	_, err = q.AddLine(engine, "CAPPED", 40)
	require.ErrorIs(t, err, entities.ErrTierResolution)
	assert.Equal(t, before, q.Snapshot())
}

func TestQuote_FinalizeIsTerminal(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	id, err := q.AddLine(engine, "P1", 10)
	require.NoError(t, err)
	require.NoError(t, q.Finalize())
	before := q.Snapshot()
	assert.Equal(t, entities.QuoteStatusFinalized, before.Status)
	assert.Equal(t, 3, before.Version)

	_, err = q.AddLine(engine, "P2", 1)
	assert.ErrorIs(t, err, entities.ErrInvalidState)
	assert.ErrorIs(t, q.SetQuantity(engine, id, 20), entities.ErrInvalidState)
	assert.ErrorIs(t, q.RemoveLine(engine, id), entities.ErrInvalidState)
	assert.ErrorIs(t, q.Finalize(), entities.ErrInvalidState)
	assert.Equal(t, before, q.Snapshot())
}

func TestQuote_ConsistencyAcrossOperationSequence(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)

	ids := make([]string, 0)
	for i, step := range []struct {
		product string
		qty     int
	}{{"P1", 1}, {"P2", 3}, {"P1", 55}, {"P2", 7}, {"CAPPED", 10}} {
		id, err := q.AddLine(engine, step.product, step.qty)
		require.NoError(t, err, "step %d", i)
		ids = append(ids, id)
		assertConsistent(t, q.Snapshot())
	}
	for i, qty := range []int{9, 10, 49, 50, 1} {
		require.NoError(t, q.SetQuantity(engine, ids[0], qty), "resize %d", i)
		assertConsistent(t, q.Snapshot())
	}
	for _, id := range ids {
		require.NoError(t, q.RemoveLine(engine, id))
		assertConsistent(t, q.Snapshot())
	}
}

func TestQuote_SnapshotIsACopy(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	_, err := q.AddLine(engine, "P2", 1)
	require.NoError(t, err)

	s := q.Snapshot()
	s.LineItems[0].LineTotal = d("0")
	s.GrandTotal = d("0")

	again := q.Snapshot()
	assert.True(t, again.LineItems[0].LineTotal.Equal(d("20")))
	assert.True(t, again.GrandTotal.Equal(d("20")))
}

func TestRestore_RoundTrip(t *testing.T) {
	engine := testEngine(t)
	q := newQuote(t)
	_, err := q.AddLine(engine, "P1", 12)
	require.NoError(t, err)
	_, err = q.AddLine(engine, "P2", 1)
	require.NoError(t, err)
	s := q.Snapshot()

	restored, err := Restore(s)
	require.NoError(t, err)
	assert.Equal(t, s, restored.Snapshot())

	_, err = Restore(entities.Quote{ID: "q", CustomerID: "c", Status: "archived"})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}
