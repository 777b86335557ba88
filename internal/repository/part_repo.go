package repository

import (
	"context"

	"costbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartRepository defines the data access contract for parts and BOM edges.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type PartRepository interface {
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	// Delete removes a part together with everything that hangs off it,
	// pricing row included, in a single transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateBomItem(ctx context.Context, b *model.BomItem) error
	FindBomItem(ctx context.Context, id uuid.UUID) (*model.BomItem, error)
	DeleteBomItem(ctx context.Context, id uuid.UUID) error
	// BomItems returns the BOM lines of an assembly (downward edges).
	BomItems(ctx context.Context, assemblyID uuid.UUID) ([]model.BomItem, error)
	// UsedIn returns the IDs of assemblies that consume the given part
	// as a BOM sub-component (upward "used-in" edges).
	UsedIn(ctx context.Context, subPartID uuid.UUID) ([]uuid.UUID, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Supplier parts and their price breaks
		var spIDs []uuid.UUID
		if err := tx.Model(&model.SupplierPart{}).Where("part_id = ?", id).
			Pluck("id", &spIDs).Error; err != nil {
			return err
		}
		if len(spIDs) > 0 {
			if err := tx.Where("supplier_part_id IN ?", spIDs).
				Delete(&model.SupplierPriceBreak{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_part_id IN ?", spIDs).
				Delete(&model.PurchaseOrderLine{}).Error; err != nil {
				return err
			}
			if err := tx.Where("part_id = ?", id).Delete(&model.SupplierPart{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("part_id = ?", id).Delete(&model.PartPriceBreak{}).Error; err != nil {
			return err
		}
		if err := tx.Where("part_id = ?", id).Delete(&model.StockItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assembly_id = ? OR sub_part_id = ?", id, id).
			Delete(&model.BomItem{}).Error; err != nil {
			return err
		}
		// The pricing row dies with its part; this is the deletion guard's
		// transactional half. The other half lives in PricingRepository.
		if err := tx.Where("part_id = ?", id).Delete(&model.PartPricing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Part{}, "id = ?", id).Error
	})
}

func (r *partRepo) CreateBomItem(ctx context.Context, b *model.BomItem) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *partRepo) FindBomItem(ctx context.Context, id uuid.UUID) (*model.BomItem, error) {
	var b model.BomItem
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *partRepo) DeleteBomItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.BomItem{}, "id = ?", id).Error
}

func (r *partRepo) BomItems(ctx context.Context, assemblyID uuid.UUID) ([]model.BomItem, error) {
	var items []model.BomItem
	err := r.db.WithContext(ctx).Where("assembly_id = ?", assemblyID).Find(&items).Error
	return items, err
}

func (r *partRepo) UsedIn(ctx context.Context, subPartID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.BomItem{}).
		Where("sub_part_id = ?", subPartID).
		Distinct().Pluck("assembly_id", &ids).Error
	return ids, err
}

func (r *partRepo) DB() *gorm.DB { return r.db }
