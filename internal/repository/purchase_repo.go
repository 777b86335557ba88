package repository

import (
	"context"

	"costbook/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateOrder(ctx context.Context, po *model.PurchaseOrder) error
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
	CreateLine(ctx context.Context, line *model.PurchaseOrderLine) error
	FindLine(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderLine, error)
	// ReceiveLine adds qty to the received counter.
	ReceiveLine(ctx context.Context, lineID uuid.UUID, qty decimal.Decimal) error
	LinesForOrder(ctx context.Context, orderID uuid.UUID) ([]model.PurchaseOrderLine, error)
	// CompletedLinesForPart returns lines that qualify for purchase-history
	// pricing: order complete, received > 0, with SupplierPart preloaded.
	CompletedLinesForPart(ctx context.Context, partID uuid.UUID) ([]model.PurchaseOrderLine, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateOrder(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseRepo) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("id = ?", orderID).Update("status", status).Error
}

func (r *purchaseRepo) CreateLine(ctx context.Context, line *model.PurchaseOrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *purchaseRepo) FindLine(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderLine, error) {
	var line model.PurchaseOrderLine
	err := r.db.WithContext(ctx).Preload("SupplierPart").First(&line, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *purchaseRepo) ReceiveLine(ctx context.Context, lineID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.PurchaseOrderLine{}).
		Where("id = ?", lineID).
		Update("received", gorm.Expr("received + ?", qty)).Error
}

func (r *purchaseRepo) LinesForOrder(ctx context.Context, orderID uuid.UUID) ([]model.PurchaseOrderLine, error) {
	var lines []model.PurchaseOrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Preload("SupplierPart").
		Find(&lines).Error
	return lines, err
}

func (r *purchaseRepo) CompletedLinesForPart(ctx context.Context, partID uuid.UUID) ([]model.PurchaseOrderLine, error) {
	var lines []model.PurchaseOrderLine
	err := r.db.WithContext(ctx).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_lines.order_id").
		Joins("JOIN supplier_parts ON supplier_parts.id = purchase_order_lines.supplier_part_id").
		Where("supplier_parts.part_id = ?", partID).
		Where("purchase_orders.status = ?", model.OrderStatusComplete).
		Where("purchase_order_lines.received > 0").
		Preload("SupplierPart").
		Find(&lines).Error
	return lines, err
}
