package repository

import (
	"context"
	"errors"
	"time"

	"costbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPartDeleted is returned when a pricing operation targets a part that
// no longer exists. Callers treat it as "nothing to do", never as a fault.
var ErrPartDeleted = errors.New("pricing: owning part deleted")

// PricingRepository manages the cached PartPricing rows.
type PricingRepository interface {
	// Find returns the record for a part, or gorm.ErrRecordNotFound.
	// Never creates; use GetOrCreate for the lazy accessor.
	Find(ctx context.Context, partID uuid.UUID) (*model.PartPricing, error)

	// GetOrCreate is the race-safe lazy accessor: idempotent creation of
	// an empty record, no aggregation side effects. Returns ErrPartDeleted
	// when the owning part has vanished.
	GetOrCreate(ctx context.Context, partID uuid.UUID, currency string) (*model.PartPricing, error)

	// SaveAggregated persists a full aggregation result. The multi-field
	// write and the owning-part existence check share one transaction so
	// readers never observe a partial row and a deleted part can never be
	// resurrected with a fresh cache row.
	SaveAggregated(ctx context.Context, rec *model.PartPricing) error

	// Sweep queries for the staleness scheduler.
	AllPartIDsWithRecord(ctx context.Context) ([]uuid.UUID, error)
	PartIDsMissingRecord(ctx context.Context) ([]uuid.UUID, error)
	StalePartIDs(ctx context.Context, updatedBefore time.Time) ([]uuid.UUID, error)
	MismatchedCurrencyPartIDs(ctx context.Context, currency string) ([]uuid.UUID, error)
}

type pricingRepo struct{ db *gorm.DB }

func NewPricingRepository(db *gorm.DB) PricingRepository { return &pricingRepo{db: db} }

func (r *pricingRepo) Find(ctx context.Context, partID uuid.UUID) (*model.PartPricing, error) {
	var rec model.PartPricing
	err := r.db.WithContext(ctx).Where("part_id = ?", partID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *pricingRepo) GetOrCreate(ctx context.Context, partID uuid.UUID, currency string) (*model.PartPricing, error) {
	rec, err := r.Find(ctx, partID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.PartPricing{PartID: partID, Currency: currency}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_id"}},
			DoNothing: true,
		}).
		Create(&fresh)
	if res.Error != nil {
		// Insert may fail on the part FK when the part was deleted
		// between lookup and insert.
		if gone, gerr := r.partMissing(ctx, partID); gerr == nil && gone {
			return nil, ErrPartDeleted
		}
		return nil, res.Error
	}

	// Re-read: a concurrent worker may have won the insert race.
	return r.Find(ctx, partID)
}

func (r *pricingRepo) SaveAggregated(ctx context.Context, rec *model.PartPricing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Part{}).Where("id = ?", rec.PartID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrPartDeleted
		}
		return tx.Save(rec).Error
	})
}

func (r *pricingRepo) AllPartIDsWithRecord(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.PartPricing{}).
		Pluck("part_id", &ids).Error
	return ids, err
}

func (r *pricingRepo) PartIDsMissingRecord(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Part{}).
		Joins("LEFT JOIN part_pricing ON part_pricing.part_id = parts.id").
		Where("part_pricing.id IS NULL").
		Pluck("parts.id", &ids).Error
	return ids, err
}

func (r *pricingRepo) StalePartIDs(ctx context.Context, updatedBefore time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.PartPricing{}).
		Where("updated_at < ?", updatedBefore).
		Pluck("part_id", &ids).Error
	return ids, err
}

func (r *pricingRepo) MismatchedCurrencyPartIDs(ctx context.Context, currency string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.PartPricing{}).
		Where("currency <> ?", currency).
		Pluck("part_id", &ids).Error
	return ids, err
}

func (r *pricingRepo) partMissing(ctx context.Context, partID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Part{}).
		Where("id = ?", partID).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
