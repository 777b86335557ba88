package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartPriceBreak is an internal sale-price tier owned directly by a part.
// Only consulted when internal price breaks are enabled in settings.
type PartPriceBreak struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(19,6);not null;default:1"`
	Price         decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	PriceCurrency string          `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Part *Part `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
}

// SupplierPriceBreak is a quantity/price tier quoted by a supplier for
// one SupplierPart. Price is per pack, not per native unit.
type SupplierPriceBreak struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SupplierPartID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(19,6);not null;default:1"`
	Price          decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	PriceCurrency  string          `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	SupplierPart *SupplierPart `gorm:"foreignKey:SupplierPartID;constraint:OnDelete:CASCADE"`
}
