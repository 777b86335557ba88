package infra

import (
	"fmt"

	"costbook/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema. AutoMigrate is safe here: every table is owned by this service
// and decimal precision is pinned via struct tags.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Migrate creates or updates all tables. Also used by sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Part{},
		&model.BomItem{},
		&model.Company{},
		&model.SupplierPart{},
		&model.PartPriceBreak{},
		&model.SupplierPriceBreak{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderLine{},
		&model.StockItem{},
		&model.PartPricing{},
		&model.ExchangeRate{},
		&model.Setting{},
	)
}
