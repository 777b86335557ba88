package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartPricing is the cached cost envelope for one part: a derived,
// idempotent value. Rows are created lazily (empty) and populated only by
// an aggregation run. Each min/max pair is either both-null or min ≤ max.
// All amounts are expressed in Currency, which tracks the system default
// at the time of the last successful aggregation.
type PartPricing struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Currency  string    `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"index"`
	CreatedAt time.Time

	InternalMin decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	InternalMax decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	SupplierMin decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	SupplierMax decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	PurchaseMin decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	PurchaseMax decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	StockMin    decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	StockMax    decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	BomMin      decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	BomMax      decimal.NullDecimal `gorm:"type:decimal(19,6)"`

	// Manual pin. When a bound is set it replaces the computed bound
	// outright rather than participating in the min/max comparison.
	OverrideMin decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	OverrideMax decimal.NullDecimal `gorm:"type:decimal(19,6)"`

	OverallMin decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	OverallMax decimal.NullDecimal `gorm:"type:decimal(19,6)"`

	Part *Part `gorm:"foreignKey:PartID"`
}

func (PartPricing) TableName() string { return "part_pricing" }

// HasOverall reports whether both overall bounds are populated.
func (p *PartPricing) HasOverall() bool {
	return p.OverallMin.Valid && p.OverallMax.Valid
}
