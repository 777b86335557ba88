package repository

import (
	"context"

	"costbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRepository interface {
	Create(ctx context.Context, item *model.StockItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	// PricedItemsForPart returns the part's stock items that carry a
	// purchase price; items without one hold no pricing signal.
	PricedItemsForPart(ctx context.Context, partID uuid.UUID) ([]model.StockItem, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) Create(ctx context.Context, item *model.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StockItem{}, "id = ?", id).Error
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var item model.StockItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *stockRepo) PricedItemsForPart(ctx context.Context, partID uuid.UUID) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.db.WithContext(ctx).
		Where("part_id = ? AND purchase_price IS NOT NULL", partID).
		Find(&items).Error
	return items, err
}
