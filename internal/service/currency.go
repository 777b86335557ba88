package service

import (
	"errors"
	"fmt"

	"costbook/internal/model"

	"github.com/shopspring/decimal"
)

// ErrMissingRate marks a conversion that failed for lack of a rate.
// It is a local failure: callers drop the single affected value and
// carry on with the rest of the aggregation run.
var ErrMissingRate = errors.New("currency: missing exchange rate")

// CurrencyConverter converts amounts into the base currency using a fixed
// rate snapshot. Rates are "units of currency per 1 unit of base", so an
// amount in currency c converts to base as amount / rate(c).
type CurrencyConverter struct {
	base  string
	rates map[string]decimal.Decimal
}

func NewCurrencyConverter(base string, rates []model.ExchangeRate) *CurrencyConverter {
	m := make(map[string]decimal.Decimal, len(rates))
	for _, r := range rates {
		m[r.Currency] = r.Rate
	}
	return &CurrencyConverter{base: base, rates: m}
}

// Base returns the snapshot's base currency code.
func (c *CurrencyConverter) Base() string { return c.base }

// ToBase converts amount from the given currency into the base currency.
// The base currency itself needs no rate row.
func (c *CurrencyConverter) ToBase(amount decimal.Decimal, from string) (decimal.Decimal, error) {
	if from == "" || from == c.base {
		return amount, nil
	}
	rate, ok := c.rates[from]
	if !ok || rate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMissingRate, from)
	}
	return amount.Div(rate), nil
}

// Convert converts between two arbitrary snapshot currencies via the base.
func (c *CurrencyConverter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	inBase, err := c.ToBase(amount, from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if to == "" || to == c.base {
		return inBase, nil
	}
	rate, ok := c.rates[to]
	if !ok || rate.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMissingRate, to)
	}
	return inBase.Mul(rate), nil
}
