package service

import (
	"context"
	"testing"

	"costbook/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePartInvalidatesConsumers(t *testing.T) {
	f := newPricingFixture()
	svc := NewPartService(f.parts, f.jobs)
	ctx := context.Background()

	sub := f.addPart(false)
	consumerA := f.addPart(true)
	consumerB := f.addPart(true)
	f.addBomLine(consumerA, sub, "1")
	f.addBomLine(consumerB, sub, "2")

	require.NoError(t, svc.Delete(ctx, sub.ID))

	// The part and its edges are gone, but the assemblies that consumed it
	// were captured first and get a recompute each.
	_, err := f.parts.FindByID(ctx, sub.ID)
	require.Error(t, err)
	require.Len(t, f.jobs.jobs, 2)
	got := map[string]bool{}
	for _, j := range f.jobs.jobs {
		got[j.partID.String()] = true
		assert.Equal(t, 0, j.counter)
	}
	assert.True(t, got[consumerA.ID.String()])
	assert.True(t, got[consumerB.ID.String()])
}

func TestAddBomItemInvalidatesAssembly(t *testing.T) {
	f := newPricingFixture()
	svc := NewPartService(f.parts, f.jobs)

	assembly := f.addPart(true)
	sub := f.addPart(false)

	_, err := svc.AddBomItem(context.Background(), dto.CreateBomItemRequest{
		AssemblyID: assembly.ID.String(),
		SubPartID:  sub.ID.String(),
		Quantity:   dec("3"),
	})
	require.NoError(t, err)

	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, assembly.ID, f.jobs.jobs[0].partID)
}

func TestAddBomItemRejectsSelfReference(t *testing.T) {
	f := newPricingFixture()
	svc := NewPartService(f.parts, f.jobs)

	p := f.addPart(true)
	_, err := svc.AddBomItem(context.Background(), dto.CreateBomItemRequest{
		AssemblyID: p.ID.String(),
		SubPartID:  p.ID.String(),
		Quantity:   dec("1"),
	})
	require.ErrorIs(t, err, ErrSelfReference)
	assert.Empty(t, f.jobs.jobs)
}

func TestRemoveBomItemInvalidatesAssembly(t *testing.T) {
	f := newPricingFixture()
	svc := NewPartService(f.parts, f.jobs)
	ctx := context.Background()

	assembly := f.addPart(true)
	sub := f.addPart(false)
	b, err := svc.AddBomItem(ctx, dto.CreateBomItemRequest{
		AssemblyID: assembly.ID.String(),
		SubPartID:  sub.ID.String(),
		Quantity:   dec("1"),
	})
	require.NoError(t, err)
	f.jobs.jobs = nil

	require.NoError(t, svc.RemoveBomItem(ctx, b.ID))
	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, assembly.ID, f.jobs.jobs[0].partID)
}
