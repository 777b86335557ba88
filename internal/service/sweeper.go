package service

import (
	"context"
	"errors"
	"time"

	"costbook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SweepStats summarises one staleness sweep.
type SweepStats struct {
	RecordsCreated   int
	StaleEnqueued    int
	CurrencyEnqueued int
}

// PricingSweeper is the periodic staleness scheduler. Each run finds parts
// whose cached pricing is missing, old, or expressed in the wrong currency
// and enqueues a recompute for each. Enqueueing is fire-and-forget: a
// failed push is logged and the sweep moves on.
type PricingSweeper struct {
	pricing  repository.PricingRepository
	settings SettingsService
	jobs     RecalcEnqueuer
}

func NewPricingSweeper(pricing repository.PricingRepository, settings SettingsService, jobs RecalcEnqueuer) *PricingSweeper {
	return &PricingSweeper{pricing: pricing, settings: settings, jobs: jobs}
}

// Run executes one sweep. Parts are deduplicated across the three
// criteria so each gets at most one job per sweep.
func (s *PricingSweeper) Run(ctx context.Context) (SweepStats, error) {
	var stats SweepStats

	set, err := s.settings.Snapshot(ctx)
	if err != nil {
		return stats, err
	}

	seen := make(map[uuid.UUID]struct{})

	// 1. Parts with no pricing record at all: create an empty row (no
	//    computation side effect), then enqueue.
	missing, err := s.pricing.PartIDsMissingRecord(ctx)
	if err != nil {
		return stats, err
	}
	for _, id := range missing {
		if _, err := s.pricing.GetOrCreate(ctx, id, set.Currency); err != nil {
			if errors.Is(err, repository.ErrPartDeleted) {
				continue
			}
			log.Error().Err(err).Str("part_id", id.String()).Msg("sweep: record creation failed")
			continue
		}
		stats.RecordsCreated++
		s.enqueue(ctx, id, seen)
	}

	// 2. Records not refreshed within the staleness window.
	cutoff := time.Now().UTC().AddDate(0, 0, -set.StaleDays)
	stale, err := s.pricing.StalePartIDs(ctx, cutoff)
	if err != nil {
		return stats, err
	}
	for _, id := range stale {
		if s.enqueue(ctx, id, seen) {
			stats.StaleEnqueued++
		}
	}

	// 3. Records left behind by a default-currency change.
	mismatched, err := s.pricing.MismatchedCurrencyPartIDs(ctx, set.Currency)
	if err != nil {
		return stats, err
	}
	for _, id := range mismatched {
		if s.enqueue(ctx, id, seen) {
			stats.CurrencyEnqueued++
		}
	}

	log.Info().
		Int("created", stats.RecordsCreated).
		Int("stale", stats.StaleEnqueued).
		Int("currency", stats.CurrencyEnqueued).
		Msg("pricing sweep complete")
	return stats, nil
}

func (s *PricingSweeper) enqueue(ctx context.Context, partID uuid.UUID, seen map[uuid.UUID]struct{}) bool {
	if _, dup := seen[partID]; dup {
		return false
	}
	seen[partID] = struct{}{}
	if err := s.jobs.EnqueueRecalc(ctx, partID, 0); err != nil {
		log.Error().Err(err).Str("part_id", partID.String()).Msg("sweep: enqueue failed")
		return false
	}
	return true
}

// RepriceAll enqueues a recompute for every existing pricing record.
// Used after an exchange-rate snapshot replacement, which shifts every
// converted value without touching any staleness criterion.
func (s *PricingSweeper) RepriceAll(ctx context.Context) (int, error) {
	ids, err := s.pricing.AllPartIDsWithRecord(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	n := 0
	for _, id := range ids {
		if s.enqueue(ctx, id, seen) {
			n++
		}
	}
	return n, nil
}

// StartPricingSweep launches a background goroutine that runs one sweep
// per interval. It respects the context for graceful shutdown.
func StartPricingSweep(ctx context.Context, sweeper *PricingSweeper, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("pricing sweep: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("pricing sweep: shutting down")
				return
			case <-ticker.C:
				if _, err := sweeper.Run(ctx); err != nil {
					log.Error().Err(err).Msg("pricing sweep: run failed")
				}
			}
		}
	}()
}
