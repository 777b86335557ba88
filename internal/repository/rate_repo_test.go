package repository

import (
	"context"
	"testing"

	"costbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSwapsWholeSnapshot(t *testing.T) {
	db := testDB(t)
	repo := NewRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, []model.ExchangeRate{
		{Currency: "AUD", Rate: dec(t, "1.5")},
		{Currency: "CAD", Rate: dec(t, "1.7")},
	}))
	require.NoError(t, repo.Replace(ctx, []model.ExchangeRate{
		{Currency: "GBP", Rate: dec(t, "0.9")},
	}))

	rates, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "GBP", rates[0].Currency)
	assert.True(t, rates[0].Rate.Equal(dec(t, "0.9")))
}

func TestUpsertUpdatesExistingRate(t *testing.T) {
	db := testDB(t)
	repo := NewRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.ExchangeRate{Currency: "AUD", Rate: dec(t, "1.5")}))
	require.NoError(t, repo.Upsert(ctx, &model.ExchangeRate{Currency: "AUD", Rate: dec(t, "1.6")}))

	rates, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.True(t, rates[0].Rate.Equal(dec(t, "1.6")))
}

func TestSettingRepoOverwrites(t *testing.T) {
	db := testDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "pricing.default_currency")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "pricing.default_currency", "USD"))
	require.NoError(t, repo.Set(ctx, "pricing.default_currency", "GBP"))

	v, ok, err := repo.Get(ctx, "pricing.default_currency")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GBP", v)
}
