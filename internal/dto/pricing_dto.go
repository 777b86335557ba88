package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SetOverrideRequest pins (or clears, when both bounds are null) the
// manual override pair on a part's pricing record.
type SetOverrideRequest struct {
	OverrideMin *decimal.Decimal `json:"override_min"`
	OverrideMax *decimal.Decimal `json:"override_max"`
}

type UpdatePricingSettingsRequest struct {
	DefaultCurrency     *string `json:"default_currency" binding:"omitempty,len=3"`
	InternalPriceBreaks *bool   `json:"internal_price_breaks"`
	StockItemPricing    *bool   `json:"stock_item_pricing"`
	StaleDays           *int    `json:"stale_days" binding:"omitempty,gt=0"`
}

type ExchangeRateInput struct {
	Currency string          `json:"currency" binding:"required,len=3"`
	Rate     decimal.Decimal `json:"rate" binding:"required"`
}

type ReplaceRatesRequest struct {
	Rates []ExchangeRateInput `json:"rates" binding:"required,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PricePairView is one source's (min, max) contribution; both fields are
// null when the source has no data.
type PricePairView struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

// PricingResponse is the read-only view of a part's cost envelope.
type PricingResponse struct {
	PartID    string    `json:"part_id"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`

	Internal PricePairView `json:"internal"`
	Supplier PricePairView `json:"supplier"`
	Purchase PricePairView `json:"purchase"`
	Stock    PricePairView `json:"stock"`
	Bom      PricePairView `json:"bom"`
	Override PricePairView `json:"override"`
	Overall  PricePairView `json:"overall"`
}

type PricingSettingsResponse struct {
	DefaultCurrency     string `json:"default_currency"`
	InternalPriceBreaks bool   `json:"internal_price_breaks"`
	StockItemPricing    bool   `json:"stock_item_pricing"`
	StaleDays           int    `json:"stale_days"`
	MaxPropagationDepth int    `json:"max_propagation_depth"`
}

type SweepResponse struct {
	RecordsCreated   int `json:"records_created"`
	StaleEnqueued    int `json:"stale_enqueued"`
	CurrencyEnqueued int `json:"currency_enqueued"`
}
