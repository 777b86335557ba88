package service

import (
	"context"
	"testing"

	"costbook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettingRepo struct {
	values map[string]string
}

func (r *memSettingRepo) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *memSettingRepo) Set(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func settingsFixture() (SettingsService, *memSettingRepo) {
	repo := &memSettingRepo{values: make(map[string]string)}
	cfg := &config.Config{
		DefaultCurrency:     "USD",
		InternalPriceBreaks: false,
		StockItemPricing:    false,
		StaleDays:           30,
		MaxPropagationDepth: 5,
		DecimalPlaces:       6,
	}
	return NewSettingsService(repo, cfg), repo
}

func TestSnapshotUsesConfigDefaults(t *testing.T) {
	svc, _ := settingsFixture()

	set, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USD", set.Currency)
	assert.False(t, set.InternalPriceBreaks)
	assert.False(t, set.StockItemPricing)
	assert.Equal(t, 30, set.StaleDays)
	assert.Equal(t, 5, set.MaxPropagationDepth)
	assert.EqualValues(t, 6, set.DecimalPlaces)
}

func TestSnapshotOverlayWins(t *testing.T) {
	svc, repo := settingsFixture()
	repo.values[SettingDefaultCurrency] = "AUD"
	repo.values[SettingInternalPriceBreaks] = "true"
	repo.values[SettingStaleDays] = "7"

	set, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AUD", set.Currency)
	assert.True(t, set.InternalPriceBreaks)
	assert.Equal(t, 7, set.StaleDays)
	// Untouched keys keep their config defaults.
	assert.False(t, set.StockItemPricing)
}

func TestSnapshotIgnoresGarbageStaleDays(t *testing.T) {
	svc, repo := settingsFixture()
	repo.values[SettingStaleDays] = "not-a-number"

	set, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, set.StaleDays)
}

func TestSetCurrencyReportsChange(t *testing.T) {
	svc, _ := settingsFixture()
	ctx := context.Background()

	changed, err := svc.SetCurrency(ctx, "USD")
	require.NoError(t, err)
	assert.False(t, changed, "same currency is not a change")

	changed, err = svc.SetCurrency(ctx, "GBP")
	require.NoError(t, err)
	assert.True(t, changed)

	set, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GBP", set.Currency)
}
