package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned application-side so the same models work against
// postgres in production and in-memory sqlite in tests.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Part) BeforeCreate(*gorm.DB) error               { ensureID(&p.ID); return nil }
func (b *BomItem) BeforeCreate(*gorm.DB) error            { ensureID(&b.ID); return nil }
func (c *Company) BeforeCreate(*gorm.DB) error            { ensureID(&c.ID); return nil }
func (s *SupplierPart) BeforeCreate(*gorm.DB) error       { ensureID(&s.ID); return nil }
func (p *PartPriceBreak) BeforeCreate(*gorm.DB) error     { ensureID(&p.ID); return nil }
func (s *SupplierPriceBreak) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }
func (p *PurchaseOrder) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (l *PurchaseOrderLine) BeforeCreate(*gorm.DB) error  { ensureID(&l.ID); return nil }
func (s *StockItem) BeforeCreate(*gorm.DB) error          { ensureID(&s.ID); return nil }
func (p *PartPricing) BeforeCreate(*gorm.DB) error        { ensureID(&p.ID); return nil }
