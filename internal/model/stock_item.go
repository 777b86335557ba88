package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is a physical batch of a part. PurchasePrice is what was paid
// per unit for this batch; items without one carry no pricing signal.
type StockItem struct {
	ID                    uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PartID                uuid.UUID           `gorm:"type:uuid;index;not null"`
	Quantity              decimal.Decimal     `gorm:"type:decimal(19,6);not null"`
	PurchasePrice         decimal.NullDecimal `gorm:"type:decimal(19,6)"`
	PurchasePriceCurrency string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Part *Part `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
}
