package repository

import (
	"context"
	"testing"
	"time"

	"costbook/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPart(t *testing.T, db *gorm.DB, assembly bool) *model.Part {
	t.Helper()
	p := &model.Part{Name: "widget", Units: "each", Assembly: assembly, Active: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)
	ctx := context.Background()

	part := createPart(t, db, false)

	first, err := repo.GetOrCreate(ctx, part.ID, "USD")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, part.ID, "EUR")
	require.NoError(t, err)

	// Same row both times; the second call must not reset the currency.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "USD", second.Currency)

	var n int64
	require.NoError(t, db.Model(&model.PartPricing{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestGetOrCreateStartsEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)

	part := createPart(t, db, false)
	rec, err := repo.GetOrCreate(context.Background(), part.ID, "USD")
	require.NoError(t, err)

	assert.False(t, rec.OverallMin.Valid)
	assert.False(t, rec.OverallMax.Valid)
	assert.False(t, rec.InternalMin.Valid)
}

func TestSaveAggregatedRefusesDeletedPart(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)
	ctx := context.Background()

	part := createPart(t, db, false)
	rec, err := repo.GetOrCreate(ctx, part.ID, "USD")
	require.NoError(t, err)

	// Part vanishes while the aggregation runs.
	require.NoError(t, db.Delete(&model.Part{}, "id = ?", part.ID).Error)

	rec.OverallMin = decimal.NullDecimal{Decimal: decimal.NewFromInt(1), Valid: true}
	rec.OverallMax = decimal.NullDecimal{Decimal: decimal.NewFromInt(2), Valid: true}
	err = repo.SaveAggregated(ctx, rec)
	require.ErrorIs(t, err, ErrPartDeleted)
}

func TestSaveAggregatedPersistsAllPairs(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)
	ctx := context.Background()

	part := createPart(t, db, false)
	rec, err := repo.GetOrCreate(ctx, part.ID, "USD")
	require.NoError(t, err)

	rec.InternalMin = decimal.NullDecimal{Decimal: dec(t, "1.5"), Valid: true}
	rec.InternalMax = decimal.NullDecimal{Decimal: dec(t, "2.5"), Valid: true}
	rec.OverallMin = rec.InternalMin
	rec.OverallMax = rec.InternalMax
	rec.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.SaveAggregated(ctx, rec))

	got, err := repo.Find(ctx, part.ID)
	require.NoError(t, err)
	assert.True(t, got.InternalMin.Decimal.Equal(dec(t, "1.5")))
	assert.True(t, got.OverallMax.Decimal.Equal(dec(t, "2.5")))
	assert.False(t, got.SupplierMin.Valid)
}

func TestPartIDsMissingRecord(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)
	ctx := context.Background()

	covered := createPart(t, db, false)
	uncovered := createPart(t, db, false)
	_, err := repo.GetOrCreate(ctx, covered.ID, "USD")
	require.NoError(t, err)

	ids, err := repo.PartIDsMissingRecord(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, uncovered.ID, ids[0])

	recorded, err := repo.AllPartIDsWithRecord(ctx)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, covered.ID, recorded[0])
}

func TestStaleAndMismatchedQueries(t *testing.T) {
	db := testDB(t)
	repo := NewPricingRepository(db)
	ctx := context.Background()

	stale := createPart(t, db, false)
	fresh := createPart(t, db, false)
	foreign := createPart(t, db, false)

	old := time.Now().UTC().AddDate(0, 0, -45)
	require.NoError(t, db.Create(&model.PartPricing{PartID: stale.ID, Currency: "USD", UpdatedAt: old}).Error)
	// Save through raw update so gorm does not touch updated_at again.
	require.NoError(t, db.Model(&model.PartPricing{}).Where("part_id = ?", stale.ID).
		UpdateColumn("updated_at", old).Error)
	require.NoError(t, db.Create(&model.PartPricing{PartID: fresh.ID, Currency: "USD", UpdatedAt: time.Now().UTC()}).Error)
	require.NoError(t, db.Create(&model.PartPricing{PartID: foreign.ID, Currency: "GBP", UpdatedAt: time.Now().UTC()}).Error)

	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	staleIDs, err := repo.StalePartIDs(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, staleIDs, 1)
	assert.Equal(t, stale.ID, staleIDs[0])

	mismatched, err := repo.MismatchedCurrencyPartIDs(ctx, "USD")
	require.NoError(t, err)
	require.Len(t, mismatched, 1)
	assert.Equal(t, foreign.ID, mismatched[0])
}
