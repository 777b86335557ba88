package repository

import (
	"context"

	"costbook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateRepository stores the externally supplied exchange-rate snapshot.
type RateRepository interface {
	All(ctx context.Context) ([]model.ExchangeRate, error)
	// Replace swaps the whole snapshot atomically.
	Replace(ctx context.Context, rates []model.ExchangeRate) error
	Upsert(ctx context.Context, rate *model.ExchangeRate) error
}

type rateRepo struct{ db *gorm.DB }

func NewRateRepository(db *gorm.DB) RateRepository { return &rateRepo{db: db} }

func (r *rateRepo) All(ctx context.Context) ([]model.ExchangeRate, error) {
	var rates []model.ExchangeRate
	err := r.db.WithContext(ctx).Find(&rates).Error
	return rates, err
}

func (r *rateRepo) Replace(ctx context.Context, rates []model.ExchangeRate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ExchangeRate{}).Error; err != nil {
			return err
		}
		if len(rates) == 0 {
			return nil
		}
		return tx.Create(&rates).Error
	})
}

func (r *rateRepo) Upsert(ctx context.Context, rate *model.ExchangeRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
		}).
		Create(rate).Error
}
