package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is a minimal supplier entity. Company management proper lives
// outside this service; we only keep what pricing needs.
type Company struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"index;not null"`
	Currency   string    `gorm:"not null;default:'USD'"`
	IsSupplier bool      `gorm:"not null;default:true"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SupplierPart links a Part to a Company that sells it.
// PackQuantityNative converts the supplier's purchase unit into the
// part's native unit of measure (e.g. a 2.5 m reel of 1 m wire = 2.5).
type SupplierPart struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID             uuid.UUID       `gorm:"type:uuid;index;not null"`
	SupplierID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	SKU                string          `gorm:"not null"`
	PackQuantityNative decimal.Decimal `gorm:"type:decimal(19,6);not null;default:1"`
	Active             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Part     *Part    `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
	Supplier *Company `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
}
