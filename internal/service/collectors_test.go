package service

import (
	"testing"

	"costbook/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdConverter() *CurrencyConverter {
	return NewCurrencyConverter("USD", testRates())
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func assertPair(t *testing.T, pair pricePair, wantMin, wantMax string) {
	t.Helper()
	require.True(t, pair.min.Valid, "min should be set")
	require.True(t, pair.max.Valid, "max should be set")
	assert.True(t, pair.min.Decimal.Equal(dec(wantMin)), "min: got %s want %s", pair.min.Decimal, wantMin)
	assert.True(t, pair.max.Decimal.Equal(dec(wantMax)), "max: got %s want %s", pair.max.Decimal, wantMax)
}

func assertNullPair(t *testing.T, pair pricePair) {
	t.Helper()
	assert.False(t, pair.min.Valid, "min should be null")
	assert.False(t, pair.max.Valid, "max should be null")
}

func TestCollectInternalPricingDisabledByDefault(t *testing.T) {
	breaks := []model.PartPriceBreak{
		{Price: dec("3"), PriceCurrency: "USD"},
	}
	pair := collectInternalPricing(breaks, usdConverter(), Settings{InternalPriceBreaks: false})
	assertNullPair(t, pair)
}

func TestCollectInternalPricing(t *testing.T) {
	breaks := []model.PartPriceBreak{
		{Price: dec("3"), PriceCurrency: "USD"},
		{Price: dec("1.5"), PriceCurrency: "AUD"}, // → 1 USD
		{Price: dec("8.5"), PriceCurrency: "CAD"}, // → 5 USD
	}
	pair := collectInternalPricing(breaks, usdConverter(), Settings{InternalPriceBreaks: true})
	assertPair(t, pair, "1", "5")
}

func TestCollectInternalPricingSkipsMissingRate(t *testing.T) {
	breaks := []model.PartPriceBreak{
		{Price: dec("3"), PriceCurrency: "USD"},
		{Price: dec("900"), PriceCurrency: "JPY"}, // no rate, dropped alone
	}
	pair := collectInternalPricing(breaks, usdConverter(), Settings{InternalPriceBreaks: true})
	assertPair(t, pair, "3", "3")
}

func TestCollectSupplierPricingDividesByPack(t *testing.T) {
	packOf := func(q string) *model.SupplierPart {
		return &model.SupplierPart{PackQuantityNative: dec(q)}
	}
	breaks := []model.SupplierPriceBreak{
		{Price: dec("6.8"), PriceCurrency: "CAD", SupplierPart: packOf("2")},      // 3.4 CAD → 2 USD
		{Price: dec("11.25"), PriceCurrency: "AUD", SupplierPart: packOf("2.5")},  // 4.5 AUD → 3 USD
		{Price: dec("2.2860"), PriceCurrency: "GBP", SupplierPart: packOf("0.254")}, // 9 GBP → 10 USD
	}
	pair := collectSupplierPricing(breaks, usdConverter())
	assertPair(t, pair, "2", "10")
}

func TestCollectSupplierPricingSkipsBadPack(t *testing.T) {
	breaks := []model.SupplierPriceBreak{
		{Price: dec("4"), PriceCurrency: "USD", SupplierPart: nil},
		{Price: dec("4"), PriceCurrency: "USD", SupplierPart: &model.SupplierPart{PackQuantityNative: decimal.Zero}},
		{Price: dec("7"), PriceCurrency: "USD", SupplierPart: &model.SupplierPart{PackQuantityNative: dec("1")}},
	}
	pair := collectSupplierPricing(breaks, usdConverter())
	assertPair(t, pair, "7", "7")
}

func TestCollectPurchasePricingRequiresReceipts(t *testing.T) {
	sp := &model.SupplierPart{PackQuantityNative: dec("2")}
	lines := []model.PurchaseOrderLine{
		{Received: decimal.Zero, PurchasePrice: dec("100"), PurchasePriceCurrency: "USD", SupplierPart: sp},
		{Received: dec("5"), PurchasePrice: dec("8"), PurchasePriceCurrency: "USD", SupplierPart: sp}, // 4/unit
		{Received: dec("1"), PurchasePrice: dec("18"), PurchasePriceCurrency: "USD", SupplierPart: sp}, // 9/unit
	}
	pair := collectPurchasePricing(lines, usdConverter())
	assertPair(t, pair, "4", "9")
}

func TestCollectStockPricing(t *testing.T) {
	items := []model.StockItem{
		{PurchasePrice: nd("2.5"), PurchasePriceCurrency: "USD"},
		{PurchasePrice: decimal.NullDecimal{}}, // unpriced batch, no signal
		{PurchasePrice: nd("6.8"), PurchasePriceCurrency: "CAD"}, // → 4 USD
	}

	pair := collectStockPricing(items, usdConverter(), Settings{StockItemPricing: true})
	assertPair(t, pair, "2.5", "4")

	pair = collectStockPricing(items, usdConverter(), Settings{StockItemPricing: false})
	assertNullPair(t, pair)
}

func TestCollectBomPricingSumsQuantityWeighted(t *testing.T) {
	subA := uuid.New()
	subB := uuid.New()
	lines := []model.BomItem{
		{SubPartID: subA, Quantity: dec("2")},
		{SubPartID: subB, Quantity: dec("3")},
	}
	subPricing := map[uuid.UUID]*model.PartPricing{
		subA: {Currency: "USD", OverallMin: nd("1"), OverallMax: nd("4")},
		subB: {Currency: "USD", OverallMin: nd("0.5"), OverallMax: nd("2")},
	}

	pair := collectBomPricing(lines, subPricing, usdConverter())
	// 2×1 + 3×0.5 = 3.5 ; 2×4 + 3×2 = 14
	assertPair(t, pair, "3.5", "14")
}

func TestCollectBomPricingConvertsStaleSubCurrency(t *testing.T) {
	sub := uuid.New()
	lines := []model.BomItem{{SubPartID: sub, Quantity: dec("1")}}
	// Sub cache still expressed in GBP from an earlier default currency.
	subPricing := map[uuid.UUID]*model.PartPricing{
		sub: {Currency: "GBP", OverallMin: nd("0.1"), OverallMax: nd("22.5")},
	}

	pair := collectBomPricing(lines, subPricing, usdConverter())
	require.True(t, pair.min.Valid)
	assert.True(t, pair.min.Decimal.Round(6).Equal(dec("0.111111")), "got %s", pair.min.Decimal)
	assert.True(t, pair.max.Decimal.Equal(dec("25")), "got %s", pair.max.Decimal)
}

func TestCollectBomPricingExcludesUnknownSubs(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	unpriced := uuid.New()
	lines := []model.BomItem{
		{SubPartID: known, Quantity: dec("2")},
		{SubPartID: unknown, Quantity: dec("1")},  // no cache row at all
		{SubPartID: unpriced, Quantity: dec("1")}, // row exists, overall null
		{SubPartID: known, Quantity: decimal.Zero}, // zero quantity contributes nothing
	}
	subPricing := map[uuid.UUID]*model.PartPricing{
		known:    {Currency: "USD", OverallMin: nd("3"), OverallMax: nd("5")},
		unpriced: {Currency: "USD"},
	}

	pair := collectBomPricing(lines, subPricing, usdConverter())
	assertPair(t, pair, "6", "10")
}

func TestCollectBomPricingAllUnknownIsNull(t *testing.T) {
	lines := []model.BomItem{{SubPartID: uuid.New(), Quantity: dec("1")}}
	pair := collectBomPricing(lines, map[uuid.UUID]*model.PartPricing{}, usdConverter())
	assertNullPair(t, pair)
}
