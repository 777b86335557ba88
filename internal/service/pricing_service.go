package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"costbook/internal/dto"
	"costbook/internal/model"
	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOverrideBounds rejects an override pair with min > max.
var ErrOverrideBounds = errors.New("pricing: override min must not exceed override max")

// PricingService is the aggregation engine: it rebuilds one part's cached
// cost envelope from the five pricing sources and propagates changes
// upward through the BOM "used-in" relation.
type PricingService interface {
	// UpdatePricing recomputes the cache row for one part. It is the unit
	// of work consumed by the queue workers; counter tracks how many BOM
	// propagation hops led here. A part that no longer exists is a silent
	// no-op; the job must never resurrect a deleted row.
	UpdatePricing(ctx context.Context, partID uuid.UUID, counter int) error

	// ScheduleRecalc enqueues an asynchronous recompute at hop zero.
	ScheduleRecalc(ctx context.Context, partID uuid.UUID) error

	// GetPricing returns the read-only envelope view, lazily creating an
	// empty record on first access (creation never computes anything).
	GetPricing(ctx context.Context, partID uuid.UUID) (*dto.PricingResponse, error)

	// SetOverride pins or clears the manual override pair, then schedules
	// a recompute so the overall values and consumers catch up.
	SetOverride(ctx context.Context, partID uuid.UUID, min, max *decimal.Decimal) error
}

type pricingService struct {
	parts     repository.PartRepository
	pricing   repository.PricingRepository
	breaks    repository.PriceBreakRepository
	purchases repository.PurchaseRepository
	stock     repository.StockRepository
	rates     repository.RateRepository
	settings  SettingsService
	jobs      RecalcEnqueuer
}

func NewPricingService(
	parts repository.PartRepository,
	pricing repository.PricingRepository,
	breaks repository.PriceBreakRepository,
	purchases repository.PurchaseRepository,
	stock repository.StockRepository,
	rates repository.RateRepository,
	settings SettingsService,
	jobs RecalcEnqueuer,
) PricingService {
	return &pricingService{
		parts:     parts,
		pricing:   pricing,
		breaks:    breaks,
		purchases: purchases,
		stock:     stock,
		rates:     rates,
		settings:  settings,
		jobs:      jobs,
	}
}

func (s *pricingService) UpdatePricing(ctx context.Context, partID uuid.UUID, counter int) error {
	set, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("pricing settings: %w", err)
	}

	// Deletion guard, first line: the part may have been removed after
	// this job was enqueued.
	part, err := s.parts.FindByID(ctx, partID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Str("part_id", partID.String()).Msg("pricing: part gone, skipping recompute")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load part: %w", err)
	}

	rec, err := s.pricing.GetOrCreate(ctx, partID, set.Currency)
	if errors.Is(err, repository.ErrPartDeleted) {
		log.Debug().Str("part_id", partID.String()).Msg("pricing: part deleted mid-recompute, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("pricing record: %w", err)
	}

	prevMin, prevMax := rec.OverallMin, rec.OverallMax

	conv, err := s.converter(ctx, set)
	if err != nil {
		return err
	}

	if err := s.collectSources(ctx, part, rec, conv, set); err != nil {
		return err
	}

	applyOverall(rec, set.DecimalPlaces)
	rec.Currency = set.Currency
	rec.UpdatedAt = time.Now().UTC()

	err = s.pricing.SaveAggregated(ctx, rec)
	if errors.Is(err, repository.ErrPartDeleted) {
		log.Debug().Str("part_id", partID.String()).Msg("pricing: part deleted before cache write, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("save pricing: %w", err)
	}

	if !nullEqual(prevMin, rec.OverallMin) || !nullEqual(prevMax, rec.OverallMax) {
		s.propagate(ctx, partID, counter, set)
	}
	return nil
}

// collectSources runs the five collectors and stores each pair on the record.
func (s *pricingService) collectSources(ctx context.Context, part *model.Part, rec *model.PartPricing, conv *CurrencyConverter, set Settings) error {
	internalBreaks, err := s.breaks.InternalByPart(ctx, part.ID)
	if err != nil {
		return fmt.Errorf("internal breaks: %w", err)
	}
	internal := collectInternalPricing(internalBreaks, conv, set).rounded(set.DecimalPlaces)
	rec.InternalMin, rec.InternalMax = internal.min, internal.max

	supplierBreaks, err := s.breaks.SupplierBreaksByPart(ctx, part.ID)
	if err != nil {
		return fmt.Errorf("supplier breaks: %w", err)
	}
	supplier := collectSupplierPricing(supplierBreaks, conv).rounded(set.DecimalPlaces)
	rec.SupplierMin, rec.SupplierMax = supplier.min, supplier.max

	lines, err := s.purchases.CompletedLinesForPart(ctx, part.ID)
	if err != nil {
		return fmt.Errorf("purchase lines: %w", err)
	}
	purchase := collectPurchasePricing(lines, conv).rounded(set.DecimalPlaces)
	rec.PurchaseMin, rec.PurchaseMax = purchase.min, purchase.max

	items, err := s.stock.PricedItemsForPart(ctx, part.ID)
	if err != nil {
		return fmt.Errorf("stock items: %w", err)
	}
	stock := collectStockPricing(items, conv, set).rounded(set.DecimalPlaces)
	rec.StockMin, rec.StockMax = stock.min, stock.max

	bom := pricePair{}
	if part.Assembly {
		bomLines, err := s.parts.BomItems(ctx, part.ID)
		if err != nil {
			return fmt.Errorf("bom items: %w", err)
		}
		subPricing := make(map[uuid.UUID]*model.PartPricing, len(bomLines))
		for _, line := range bomLines {
			sub, err := s.pricing.Find(ctx, line.SubPartID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // unpriced sub part: line treated as unknown
			}
			if err != nil {
				return fmt.Errorf("sub pricing: %w", err)
			}
			subPricing[line.SubPartID] = sub
		}
		bom = collectBomPricing(bomLines, subPricing, conv).rounded(set.DecimalPlaces)
	}
	rec.BomMin, rec.BomMax = bom.min, bom.max

	return nil
}

// propagate enqueues a recompute for every assembly consuming this part,
// bounded by the hop counter so cyclic or deep diamond graphs terminate.
func (s *pricingService) propagate(ctx context.Context, partID uuid.UUID, counter int, set Settings) {
	if counter >= set.MaxPropagationDepth {
		log.Warn().
			Str("part_id", partID.String()).
			Int("counter", counter).
			Msg("pricing: propagation depth exceeded, stopping cascade")
		return
	}

	assemblies, err := s.parts.UsedIn(ctx, partID)
	if err != nil {
		log.Error().Err(err).Str("part_id", partID.String()).Msg("pricing: used-in lookup failed")
		return
	}
	for _, assemblyID := range assemblies {
		if err := s.jobs.EnqueueRecalc(ctx, assemblyID, counter+1); err != nil {
			log.Error().Err(err).
				Str("assembly_id", assemblyID.String()).
				Msg("pricing: failed to enqueue propagation job")
		}
	}
}

func (s *pricingService) ScheduleRecalc(ctx context.Context, partID uuid.UUID) error {
	if _, err := s.parts.FindByID(ctx, partID); err != nil {
		return err
	}
	return s.jobs.EnqueueRecalc(ctx, partID, 0)
}

func (s *pricingService) GetPricing(ctx context.Context, partID uuid.UUID) (*dto.PricingResponse, error) {
	if _, err := s.parts.FindByID(ctx, partID); err != nil {
		return nil, err
	}
	set, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.pricing.GetOrCreate(ctx, partID, set.Currency)
	if err != nil {
		return nil, err
	}
	return pricingToResponse(rec), nil
}

func (s *pricingService) SetOverride(ctx context.Context, partID uuid.UUID, min, max *decimal.Decimal) error {
	if min != nil && max != nil && min.GreaterThan(*max) {
		return ErrOverrideBounds
	}
	if _, err := s.parts.FindByID(ctx, partID); err != nil {
		return err
	}
	set, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	rec, err := s.pricing.GetOrCreate(ctx, partID, set.Currency)
	if err != nil {
		return err
	}

	rec.OverrideMin = toNull(min, set.DecimalPlaces)
	rec.OverrideMax = toNull(max, set.DecimalPlaces)
	if err := s.pricing.SaveAggregated(ctx, rec); err != nil {
		return err
	}
	return s.jobs.EnqueueRecalc(ctx, partID, 0)
}

// converter builds a fresh conversion snapshot for one aggregation run.
func (s *pricingService) converter(ctx context.Context, set Settings) (*CurrencyConverter, error) {
	rates, err := s.rates.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange rates: %w", err)
	}
	return NewCurrencyConverter(set.Currency, rates), nil
}

// applyOverall derives the overall envelope from the stored source pairs.
// An override bound replaces the computed bound outright; it does not
// merely participate in the comparison.
func applyOverall(rec *model.PartPricing, places int32) {
	var overall pricePair

	mins := []decimal.NullDecimal{rec.InternalMin, rec.SupplierMin, rec.PurchaseMin, rec.StockMin, rec.BomMin}
	maxs := []decimal.NullDecimal{rec.InternalMax, rec.SupplierMax, rec.PurchaseMax, rec.StockMax, rec.BomMax}

	if rec.OverrideMin.Valid {
		overall.min = decimal.NullDecimal{Decimal: rec.OverrideMin.Decimal.Round(places), Valid: true}
	} else {
		for _, v := range mins {
			if v.Valid && (!overall.min.Valid || v.Decimal.LessThan(overall.min.Decimal)) {
				overall.min = v
			}
		}
	}

	if rec.OverrideMax.Valid {
		overall.max = decimal.NullDecimal{Decimal: rec.OverrideMax.Decimal.Round(places), Valid: true}
	} else {
		for _, v := range maxs {
			if v.Valid && (!overall.max.Valid || v.Decimal.GreaterThan(overall.max.Decimal)) {
				overall.max = v
			}
		}
	}

	// A single-bound override can invert the envelope against computed
	// data; the pinned bound wins and drags the other with it.
	if overall.min.Valid && overall.max.Valid && overall.min.Decimal.GreaterThan(overall.max.Decimal) {
		if rec.OverrideMin.Valid && !rec.OverrideMax.Valid {
			overall.max = overall.min
		} else {
			overall.min = overall.max
		}
	}

	rec.OverallMin, rec.OverallMax = overall.min, overall.max
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}

func toNull(v *decimal.Decimal, places int32) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: v.Round(places), Valid: true}
}

func nullPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func pricingToResponse(rec *model.PartPricing) *dto.PricingResponse {
	return &dto.PricingResponse{
		PartID:    rec.PartID.String(),
		Currency:  rec.Currency,
		UpdatedAt: rec.UpdatedAt,
		Internal:  dto.PricePairView{Min: nullPtr(rec.InternalMin), Max: nullPtr(rec.InternalMax)},
		Supplier:  dto.PricePairView{Min: nullPtr(rec.SupplierMin), Max: nullPtr(rec.SupplierMax)},
		Purchase:  dto.PricePairView{Min: nullPtr(rec.PurchaseMin), Max: nullPtr(rec.PurchaseMax)},
		Stock:     dto.PricePairView{Min: nullPtr(rec.StockMin), Max: nullPtr(rec.StockMax)},
		Bom:       dto.PricePairView{Min: nullPtr(rec.BomMin), Max: nullPtr(rec.BomMax)},
		Override:  dto.PricePairView{Min: nullPtr(rec.OverrideMin), Max: nullPtr(rec.OverrideMax)},
		Overall:   dto.PricePairView{Min: nullPtr(rec.OverallMin), Max: nullPtr(rec.OverallMax)},
	}
}
