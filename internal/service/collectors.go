package service

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"costbook/internal/model"
)

// pricePair is one source's contribution to the cost envelope:
// either both-null (no data) or min ≤ max in base currency.
type pricePair struct {
	min decimal.NullDecimal
	max decimal.NullDecimal
}

// extend widens the pair to include v.
func (p *pricePair) extend(v decimal.Decimal) {
	if !p.min.Valid || v.LessThan(p.min.Decimal) {
		p.min = decimal.NullDecimal{Decimal: v, Valid: true}
	}
	if !p.max.Valid || v.GreaterThan(p.max.Decimal) {
		p.max = decimal.NullDecimal{Decimal: v, Valid: true}
	}
}

// rounded returns the pair with both bounds rounded to the storage
// precision, so repeated recomputation converges bitwise.
func (p pricePair) rounded(places int32) pricePair {
	if p.min.Valid {
		p.min.Decimal = p.min.Decimal.Round(places)
	}
	if p.max.Valid {
		p.max.Decimal = p.max.Decimal.Round(places)
	}
	return p
}

// The five source collectors. Each is a pure function over pre-fetched
// rows plus the settings snapshot; a value that cannot be converted for
// lack of an exchange rate is dropped on its own, never aborting the run.

// collectInternalPricing aggregates the part's own price break rows.
// Gated by the internal-price-breaks setting (default off).
func collectInternalPricing(breaks []model.PartPriceBreak, conv *CurrencyConverter, set Settings) pricePair {
	var pair pricePair
	if !set.InternalPriceBreaks {
		return pair
	}
	for _, pb := range breaks {
		v, err := conv.ToBase(pb.Price, pb.PriceCurrency)
		if err != nil {
			log.Warn().Str("currency", pb.PriceCurrency).Msg("internal pricing: skipping unconvertible break")
			continue
		}
		pair.extend(v)
	}
	return pair
}

// collectSupplierPricing aggregates every break of every supplier part,
// normalised to a per-native-unit price. The full set participates;
// not just the cheapest tier per supplier.
func collectSupplierPricing(breaks []model.SupplierPriceBreak, conv *CurrencyConverter) pricePair {
	var pair pricePair
	for _, sb := range breaks {
		if sb.SupplierPart == nil || !sb.SupplierPart.PackQuantityNative.IsPositive() {
			continue
		}
		unit := sb.Price.Div(sb.SupplierPart.PackQuantityNative)
		v, err := conv.ToBase(unit, sb.PriceCurrency)
		if err != nil {
			log.Warn().Str("currency", sb.PriceCurrency).Msg("supplier pricing: skipping unconvertible break")
			continue
		}
		pair.extend(v)
	}
	return pair
}

// collectPurchasePricing aggregates historical purchase-order lines.
// Callers pass only qualifying lines (complete order, received > 0);
// the guards here cover malformed rows, not business filtering.
func collectPurchasePricing(lines []model.PurchaseOrderLine, conv *CurrencyConverter) pricePair {
	var pair pricePair
	for _, line := range lines {
		if !line.Received.IsPositive() {
			continue
		}
		if line.SupplierPart == nil || !line.SupplierPart.PackQuantityNative.IsPositive() {
			continue
		}
		unit := line.PurchasePrice.Div(line.SupplierPart.PackQuantityNative)
		v, err := conv.ToBase(unit, line.PurchasePriceCurrency)
		if err != nil {
			log.Warn().Str("currency", line.PurchasePriceCurrency).Msg("purchase pricing: skipping unconvertible line")
			continue
		}
		pair.extend(v)
	}
	return pair
}

// collectStockPricing aggregates purchase prices across the part's stock
// items. Gated by the stock-item-pricing setting (default off).
func collectStockPricing(items []model.StockItem, conv *CurrencyConverter, set Settings) pricePair {
	var pair pricePair
	if !set.StockItemPricing {
		return pair
	}
	for _, item := range items {
		if !item.PurchasePrice.Valid {
			continue
		}
		v, err := conv.ToBase(item.PurchasePrice.Decimal, item.PurchasePriceCurrency)
		if err != nil {
			log.Warn().Str("currency", item.PurchasePriceCurrency).Msg("stock pricing: skipping unconvertible item")
			continue
		}
		pair.extend(v)
	}
	return pair
}

// collectBomPricing sums quantity × cached sub-part overall bounds across
// the assembly's BOM lines. It reads sibling caches, never recomputing
// them. Lines whose sub part has no overall pricing yet are excluded as
// "unknown" rather than counted as zero, so a partially populated
// dependency graph does not skew totals toward zero. Zero-quantity lines
// contribute nothing.
func collectBomPricing(lines []model.BomItem, subPricing map[uuid.UUID]*model.PartPricing, conv *CurrencyConverter) pricePair {
	var pair pricePair
	minSum := decimal.Zero
	maxSum := decimal.Zero
	counted := 0

	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		rec := subPricing[line.SubPartID]
		if rec == nil || !rec.HasOverall() {
			continue
		}
		// Sub-part caches may still be expressed in an older default
		// currency; normalise before summing.
		mn, err := conv.ToBase(rec.OverallMin.Decimal, rec.Currency)
		if err != nil {
			log.Warn().Str("currency", rec.Currency).Msg("bom pricing: skipping unconvertible sub part")
			continue
		}
		mx, err := conv.ToBase(rec.OverallMax.Decimal, rec.Currency)
		if err != nil {
			log.Warn().Str("currency", rec.Currency).Msg("bom pricing: skipping unconvertible sub part")
			continue
		}
		minSum = minSum.Add(line.Quantity.Mul(mn))
		maxSum = maxSum.Add(line.Quantity.Mul(mx))
		counted++
	}

	if counted == 0 {
		return pair
	}
	pair.min = decimal.NullDecimal{Decimal: minSum, Valid: true}
	pair.max = decimal.NullDecimal{Decimal: maxSum, Valid: true}
	return pair
}
