package repository

import (
	"context"

	"costbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceBreakRepository covers both internal (part-owned) and supplier
// price break rows, plus the supplier-part links they hang off.
type PriceBreakRepository interface {
	CreateCompany(ctx context.Context, c *model.Company) error
	CreateSupplierPart(ctx context.Context, sp *model.SupplierPart) error
	FindSupplierPart(ctx context.Context, id uuid.UUID) (*model.SupplierPart, error)
	DeleteSupplierPart(ctx context.Context, id uuid.UUID) error

	CreateInternal(ctx context.Context, pb *model.PartPriceBreak) error
	DeleteInternal(ctx context.Context, id uuid.UUID) error
	FindInternal(ctx context.Context, id uuid.UUID) (*model.PartPriceBreak, error)
	// InternalByPart returns all internal price break rows for a part.
	InternalByPart(ctx context.Context, partID uuid.UUID) ([]model.PartPriceBreak, error)

	CreateSupplierBreak(ctx context.Context, sb *model.SupplierPriceBreak) error
	DeleteSupplierBreak(ctx context.Context, id uuid.UUID) error
	FindSupplierBreak(ctx context.Context, id uuid.UUID) (*model.SupplierPriceBreak, error)
	// SupplierBreaksByPart returns every price break of every active
	// supplier part linked to the part, with SupplierPart preloaded so
	// callers can divide by the pack quantity.
	SupplierBreaksByPart(ctx context.Context, partID uuid.UUID) ([]model.SupplierPriceBreak, error)
}

type priceBreakRepo struct{ db *gorm.DB }

func NewPriceBreakRepository(db *gorm.DB) PriceBreakRepository { return &priceBreakRepo{db: db} }

func (r *priceBreakRepo) CreateCompany(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *priceBreakRepo) CreateSupplierPart(ctx context.Context, sp *model.SupplierPart) error {
	return r.db.WithContext(ctx).Create(sp).Error
}

func (r *priceBreakRepo) FindSupplierPart(ctx context.Context, id uuid.UUID) (*model.SupplierPart, error) {
	var sp model.SupplierPart
	err := r.db.WithContext(ctx).First(&sp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *priceBreakRepo) DeleteSupplierPart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("supplier_part_id = ?", id).
			Delete(&model.SupplierPriceBreak{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SupplierPart{}, "id = ?", id).Error
	})
}

func (r *priceBreakRepo) CreateInternal(ctx context.Context, pb *model.PartPriceBreak) error {
	return r.db.WithContext(ctx).Create(pb).Error
}

func (r *priceBreakRepo) DeleteInternal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PartPriceBreak{}, "id = ?", id).Error
}

func (r *priceBreakRepo) FindInternal(ctx context.Context, id uuid.UUID) (*model.PartPriceBreak, error) {
	var pb model.PartPriceBreak
	err := r.db.WithContext(ctx).First(&pb, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pb, nil
}

func (r *priceBreakRepo) InternalByPart(ctx context.Context, partID uuid.UUID) ([]model.PartPriceBreak, error) {
	var rows []model.PartPriceBreak
	err := r.db.WithContext(ctx).Where("part_id = ?", partID).Find(&rows).Error
	return rows, err
}

func (r *priceBreakRepo) CreateSupplierBreak(ctx context.Context, sb *model.SupplierPriceBreak) error {
	return r.db.WithContext(ctx).Create(sb).Error
}

func (r *priceBreakRepo) DeleteSupplierBreak(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SupplierPriceBreak{}, "id = ?", id).Error
}

func (r *priceBreakRepo) FindSupplierBreak(ctx context.Context, id uuid.UUID) (*model.SupplierPriceBreak, error) {
	var sb model.SupplierPriceBreak
	err := r.db.WithContext(ctx).Preload("SupplierPart").First(&sb, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sb, nil
}

func (r *priceBreakRepo) SupplierBreaksByPart(ctx context.Context, partID uuid.UUID) ([]model.SupplierPriceBreak, error) {
	var rows []model.SupplierPriceBreak
	err := r.db.WithContext(ctx).
		Joins("JOIN supplier_parts ON supplier_parts.id = supplier_price_breaks.supplier_part_id").
		Where("supplier_parts.part_id = ? AND supplier_parts.active = ?", partID, true).
		Preload("SupplierPart").
		Find(&rows).Error
	return rows, err
}
