package repository

import (
	"context"
	"testing"

	"costbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeletePartRemovesEverything(t *testing.T) {
	db := testDB(t)
	repo := NewPartRepository(db)
	pricingRepo := NewPricingRepository(db)
	ctx := context.Background()

	part := createPart(t, db, false)
	assembly := createPart(t, db, true)

	supplier := &model.Company{Name: "Acme", Currency: "USD", IsSupplier: true, Active: true}
	require.NoError(t, db.Create(supplier).Error)
	sp := &model.SupplierPart{PartID: part.ID, SupplierID: supplier.ID, SKU: "A-1", PackQuantityNative: dec(t, "1"), Active: true}
	require.NoError(t, db.Create(sp).Error)
	require.NoError(t, db.Create(&model.SupplierPriceBreak{SupplierPartID: sp.ID, Quantity: dec(t, "1"), Price: dec(t, "5"), PriceCurrency: "USD"}).Error)
	require.NoError(t, db.Create(&model.PartPriceBreak{PartID: part.ID, Quantity: dec(t, "1"), Price: dec(t, "2"), PriceCurrency: "USD"}).Error)
	require.NoError(t, db.Create(&model.StockItem{PartID: part.ID, Quantity: dec(t, "10")}).Error)
	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: assembly.ID, SubPartID: part.ID, Quantity: dec(t, "2")}))
	_, err := pricingRepo.GetOrCreate(ctx, part.ID, "USD")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, part.ID))

	_, err = repo.FindByID(ctx, part.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The pricing row dies in the same transaction as the part.
	_, err = pricingRepo.Find(ctx, part.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"supplier parts", &model.SupplierPart{}},
		{"supplier breaks", &model.SupplierPriceBreak{}},
		{"internal breaks", &model.PartPriceBreak{}},
		{"stock items", &model.StockItem{}},
		{"bom edges", &model.BomItem{}},
	} {
		var n int64
		require.NoError(t, db.Model(probe.model).Count(&n).Error)
		assert.Zero(t, n, "%s should be gone", probe.name)
	}
}

func TestUsedInReturnsDistinctAssemblies(t *testing.T) {
	db := testDB(t)
	repo := NewPartRepository(db)
	ctx := context.Background()

	sub := createPart(t, db, false)
	a := createPart(t, db, true)
	b := createPart(t, db, true)
	other := createPart(t, db, false)

	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: a.ID, SubPartID: sub.ID, Quantity: dec(t, "1")}))
	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: b.ID, SubPartID: sub.ID, Quantity: dec(t, "3")}))
	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: b.ID, SubPartID: other.ID, Quantity: dec(t, "1")}))

	ids, err := repo.UsedIn(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	got := map[string]bool{}
	for _, id := range ids {
		got[id.String()] = true
	}
	assert.True(t, got[a.ID.String()])
	assert.True(t, got[b.ID.String()])
}

func TestBomItemsReturnsDownwardEdges(t *testing.T) {
	db := testDB(t)
	repo := NewPartRepository(db)
	ctx := context.Background()

	assembly := createPart(t, db, true)
	s1 := createPart(t, db, false)
	s2 := createPart(t, db, false)
	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: assembly.ID, SubPartID: s1.ID, Quantity: dec(t, "2")}))
	require.NoError(t, repo.CreateBomItem(ctx, &model.BomItem{AssemblyID: assembly.ID, SubPartID: s2.ID, Quantity: dec(t, "5")}))

	lines, err := repo.BomItems(ctx, assembly.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}
