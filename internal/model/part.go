package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Part is the sellable/buildable unit everything else hangs off.
// Assembly=true means the part is built from BomItem lines and its
// pricing gains a BOM-derived component.
type Part struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"index;not null"`
	IPN          string    `gorm:"index"`
	Description  *string
	Units        string `gorm:"not null;default:'each'"`
	Assembly     bool   `gorm:"not null;default:false"`
	Component    bool   `gorm:"not null;default:true"`
	Purchaseable bool   `gorm:"not null;default:true"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Pricing *PartPricing `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
}

// BomItem is one edge of the parts DAG: SubPart is consumed Quantity
// times per unit of Assembly built.
type BomItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AssemblyID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_bom_edge;not null"`
	SubPartID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_bom_edge;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	Reference  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Assembly *Part `gorm:"foreignKey:AssemblyID;constraint:OnDelete:CASCADE"`
	SubPart  *Part `gorm:"foreignKey:SubPartID;constraint:OnDelete:CASCADE"`
}
