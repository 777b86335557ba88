package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one row of the external rate snapshot: Rate units of
// Currency buy 1 unit of the system base currency. The snapshot is
// replaced wholesale; this service never fetches rates itself.
type ExchangeRate struct {
	Currency  string          `gorm:"primaryKey"`
	Rate      decimal.Decimal `gorm:"type:decimal(19,6);not null"`
	UpdatedAt time.Time
}

func (ExchangeRate) TableName() string { return "exchange_rates" }

// Setting is a runtime-mutable key/value overlay on top of the env config.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
