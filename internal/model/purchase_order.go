package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order lifecycle states. Only complete orders feed pricing.
const (
	OrderStatusPending   = "pending"
	OrderStatusPlaced    = "placed"
	OrderStatusComplete  = "complete"
	OrderStatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID `gorm:"type:uuid;index;not null"`
	Reference  string    `gorm:"uniqueIndex;not null"`
	Status     string    `gorm:"index;not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Company            `gorm:"foreignKey:SupplierID"`
	Lines    []PurchaseOrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// PurchaseOrderLine records what was actually paid for a supplier part.
// PurchasePrice is per pack; Received counts packs delivered so far.
type PurchaseOrderLine struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID               uuid.UUID       `gorm:"type:uuid;index;not null"`
	SupplierPartID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity              decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	Received              decimal.Decimal `gorm:"type:decimal(19,6);not null;default:0"`
	PurchasePrice         decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	PurchasePriceCurrency string          `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Order        *PurchaseOrder `gorm:"foreignKey:OrderID"`
	SupplierPart *SupplierPart  `gorm:"foreignKey:SupplierPartID;constraint:OnDelete:CASCADE"`
}
