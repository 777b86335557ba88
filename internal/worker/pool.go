package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueuePricing = "jobs:pricing"

const maxAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RecalcPayload is the job body for one pricing recompute. Counter is the
// BOM hop count: 0 for direct invalidations, incremented each time the
// recompute propagates to a consuming assembly.
type RecalcPayload struct {
	PartID  string `json:"part_id"`
	Counter int    `json:"counter"`
}

// PricingUpdater recomputes one part's cached pricing. Counter carries
// the propagation depth through the queue.
type PricingUpdater interface {
	UpdatePricing(ctx context.Context, partID uuid.UUID, counter int) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecalc pushes a pricing recompute job to Redis.
func (d *Dispatcher) EnqueueRecalc(ctx context.Context, partID uuid.UUID, counter int) error {
	return d.enqueue(ctx, QueuePricing, "pricing_recalc", RecalcPayload{
		PartID:  partID.String(),
		Counter: counter,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// QueueLength returns the number of pending pricing jobs, for monitoring.
func (d *Dispatcher) QueueLength(ctx context.Context) (int64, error) {
	return d.rdb.LLen(ctx, QueuePricing).Result()
}

// StartWorkerPool launches numWorkers goroutines consuming the pricing
// queue. Each goroutine blocks on BRPOP, so an idle pool costs nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, updater PricingUpdater, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, updater, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, updater PricingUpdater, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, up to 5s, then loop to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueuePricing).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, updater, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, updater PricingUpdater, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch job.Type {
	case "pricing_recalc":
		if err := processRecalc(ctx, updater, job.Payload); err != nil {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), maxAttempts)
		}
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
	}
}

// processRecalc runs one recompute with exponential backoff. A malformed
// payload is dropped immediately; a failing recompute gets maxAttempts
// tries before the caller moves it to the DLQ.
func processRecalc(ctx context.Context, updater PricingUpdater, raw json.RawMessage) error {
	var payload RecalcPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("pricing worker: invalid payload")
		return nil
	}
	partID, err := uuid.Parse(payload.PartID)
	if err != nil {
		log.Error().Str("part_id", payload.PartID).Msg("pricing worker: invalid part_id")
		return nil
	}

	return withRetry(ctx, maxAttempts, func(attempt int) error {
		if err := updater.UpdatePricing(ctx, partID, payload.Counter); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("part_id", payload.PartID).
				Msg("pricing worker: recompute failed, retrying")
			return err
		}
		return nil
	})
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
