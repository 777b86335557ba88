package handler

import (
	"context"
	"net/http"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"
	"costbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SettingsHandler exposes the pricing settings overlay, the exchange
// rate table, and a manual trigger for the staleness sweep.
type SettingsHandler struct {
	settings service.SettingsService
	rates    repository.RateRepository
	sweeper  *service.PricingSweeper
}

func NewSettingsHandler(settings service.SettingsService, rates repository.RateRepository, sweeper *service.PricingSweeper) *SettingsHandler {
	return &SettingsHandler{settings: settings, rates: rates, sweeper: sweeper}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	set, err := h.settings.Snapshot(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PricingSettingsResponse{
		DefaultCurrency:     set.Currency,
		InternalPriceBreaks: set.InternalPriceBreaks,
		StockItemPricing:    set.StockItemPricing,
		StaleDays:           set.StaleDays,
		MaxPropagationDepth: set.MaxPropagationDepth,
	})
}

// UpdateSettings applies the provided fields. A default currency change
// kicks an immediate sweep so existing records converge without waiting
// for the next scheduled run.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdatePricingSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	currencyChanged := false
	if req.DefaultCurrency != nil {
		changed, err := h.settings.SetCurrency(ctx, *req.DefaultCurrency)
		if err != nil {
			c.Error(err)
			return
		}
		currencyChanged = changed
	}
	if req.InternalPriceBreaks != nil {
		if err := h.settings.SetFlag(ctx, service.SettingInternalPriceBreaks, *req.InternalPriceBreaks); err != nil {
			c.Error(err)
			return
		}
	}
	if req.StockItemPricing != nil {
		if err := h.settings.SetFlag(ctx, service.SettingStockItemPricing, *req.StockItemPricing); err != nil {
			c.Error(err)
			return
		}
	}
	if req.StaleDays != nil {
		if err := h.settings.SetStaleDays(ctx, *req.StaleDays); err != nil {
			c.Error(err)
			return
		}
	}

	if currencyChanged {
		go func() {
			if _, err := h.sweeper.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("settings: post-currency-change sweep failed")
			}
		}()
	}
	h.GetSettings(c)
}

func (h *SettingsHandler) GetRates(c *gin.Context) {
	rates, err := h.rates.All(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	out := make([]dto.ExchangeRateInput, 0, len(rates))
	for _, r := range rates {
		out = append(out, dto.ExchangeRateInput{Currency: r.Currency, Rate: r.Rate})
	}
	c.JSON(http.StatusOK, gin.H{"rates": out})
}

// ReplaceRates swaps the whole exchange rate table atomically.
func (h *SettingsHandler) ReplaceRates(c *gin.Context) {
	var req dto.ReplaceRatesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rows := make([]model.ExchangeRate, 0, len(req.Rates))
	for _, in := range req.Rates {
		rows = append(rows, model.ExchangeRate{Currency: in.Currency, Rate: in.Rate})
	}
	if err := h.rates.Replace(c.Request.Context(), rows); err != nil {
		c.Error(err)
		return
	}

	// Every cached envelope was computed with the old snapshot.
	enqueued, err := h.sweeper.RepriceAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "reprice_enqueued": enqueued})
}

// UpsertRate creates or updates a single rate row without touching the
// rest of the snapshot.
func (h *SettingsHandler) UpsertRate(c *gin.Context) {
	var req dto.ExchangeRateInput
	if !bindAndValidate(c, &req) {
		return
	}
	rate := model.ExchangeRate{Currency: req.Currency, Rate: req.Rate}
	if err := h.rates.Upsert(c.Request.Context(), &rate); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// RunSweep triggers one staleness sweep synchronously and reports what
// it enqueued.
func (h *SettingsHandler) RunSweep(c *gin.Context) {
	stats, err := h.sweeper.Run(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.SweepResponse{
		RecordsCreated:   stats.RecordsCreated,
		StaleEnqueued:    stats.StaleEnqueued,
		CurrencyEnqueued: stats.CurrencyEnqueued,
	})
}
