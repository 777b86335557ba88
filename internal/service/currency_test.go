package service

import (
	"testing"

	"costbook/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRates() []model.ExchangeRate {
	return []model.ExchangeRate{
		{Currency: "AUD", Rate: dec("1.5")},
		{Currency: "CAD", Rate: dec("1.7")},
		{Currency: "GBP", Rate: dec("0.9")},
	}
}

func TestToBaseIdentity(t *testing.T) {
	conv := NewCurrencyConverter("USD", testRates())

	v, err := conv.ToBase(dec("12.34"), "USD")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("12.34")))

	// Empty currency is treated as already-in-base.
	v, err = conv.ToBase(dec("5"), "")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("5")))
}

func TestToBaseDividesByRate(t *testing.T) {
	conv := NewCurrencyConverter("USD", testRates())

	// 15 AUD at 1.5 AUD per USD → 10 USD
	v, err := conv.ToBase(dec("15"), "AUD")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("10")), "got %s", v)

	// 0.9 GBP at 0.9 GBP per USD → 1 USD
	v, err = conv.ToBase(dec("0.9"), "GBP")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("1")))
}

func TestToBaseMissingRate(t *testing.T) {
	conv := NewCurrencyConverter("USD", testRates())

	_, err := conv.ToBase(dec("1"), "JPY")
	require.ErrorIs(t, err, ErrMissingRate)
}

func TestToBaseZeroRateIsMissing(t *testing.T) {
	conv := NewCurrencyConverter("USD", []model.ExchangeRate{
		{Currency: "XXX", Rate: decimal.Zero},
	})

	_, err := conv.ToBase(dec("1"), "XXX")
	require.ErrorIs(t, err, ErrMissingRate)
}

func TestConvertCrossCurrency(t *testing.T) {
	conv := NewCurrencyConverter("USD", testRates())

	// 15 AUD → 10 USD → 17 CAD
	v, err := conv.Convert(dec("15"), "AUD", "CAD")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("17")), "got %s", v)

	_, err = conv.Convert(dec("1"), "AUD", "JPY")
	require.ErrorIs(t, err, ErrMissingRate)
}
