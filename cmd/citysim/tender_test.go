package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobi-skylines/citysim/internal/engine"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/persistence"
)

func openTestDB(t *testing.T) *persistence.DB {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "citysim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// pendingCity has ticked up to its first tender.
func pendingCity(t *testing.T) *engine.State {
	t.Helper()
	st := engine.NewState()
	rng := entropy.NewSeeded(1)
	for !st.EventPending() {
		engine.Tick(st, rng)
	}
	require.Equal(t, engine.TenderPeriod, st.Stats.TickCount)
	return st
}

func TestResolveSavedTender(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := pendingCity(t)
	money := st.Stats.Money
	_, err := db.Save(ctx, persistence.SaveInput{Slot: "city", State: st})
	require.NoError(t, err)

	res, err := resolveSavedTender(ctx, db, "city", engine.TenderBribe)
	require.NoError(t, err)
	assert.Equal(t, engine.TenderBribe, res.Choice)

	out, err := db.Load(ctx, persistence.LoadInput{Slot: "city"})
	require.NoError(t, err)
	assert.False(t, out.State.EventPending())
	assert.Equal(t, money-engine.TenderBribeCost, out.State.Stats.Money)
	assert.Equal(t, float64(engine.TenderBribeKickback), out.State.Stats.KickbackRevenue)

	_, err = resolveSavedTender(ctx, db, "city", engine.TenderReject)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidEventChoice), "got %v", err)

	_, err = resolveSavedTender(ctx, db, "elsewhere", engine.TenderReject)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound), "got %v", err)
}

func TestResolveSavedTenderRefusalLeavesSlot(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	st := pendingCity(t)
	st.Stats.Money = 100
	_, err := db.Save(ctx, persistence.SaveInput{Slot: "city", State: st})
	require.NoError(t, err)

	_, err = resolveSavedTender(ctx, db, "city", engine.TenderStandard)
	assert.True(t, errors.IsCode(err, errors.CodeInsufficientFunds), "got %v", err)

	out, err := db.Load(ctx, persistence.LoadInput{Slot: "city"})
	require.NoError(t, err)
	assert.True(t, out.State.EventPending())
	assert.Equal(t, 100.0, out.State.Stats.Money)
}

func TestHostResumesAfterTenderAnswered(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	h := &host{
		sim:   engine.NewSimulation(pendingCity(t), entropy.NewSeeded(2)),
		db:    db,
		store: db,
		slot:  "live",
	}

	// Held: the city is saved with its tender pending and does not tick.
	h.step(ctx)
	h.step(ctx)
	assert.Equal(t, engine.TenderPeriod, h.sim.Stats().TickCount)
	out, err := db.Load(ctx, persistence.LoadInput{Slot: "live"})
	require.NoError(t, err)
	assert.True(t, out.State.EventPending())

	_, err = resolveSavedTender(ctx, db, "live", engine.TenderReject)
	require.NoError(t, err)

	h.step(ctx)
	assert.False(t, h.sim.EventPending())
	assert.Equal(t, engine.TenderPeriod+1, h.sim.Stats().TickCount)
}

func TestHostAutoPolicyAnswersTender(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	h := &host{
		sim:    engine.NewSimulation(pendingCity(t), entropy.NewSeeded(2)),
		db:     db,
		store:  db,
		slot:   "live",
		policy: engine.TenderStandard,
	}

	h.step(ctx)
	st := h.sim.Stats()
	assert.False(t, h.sim.EventPending())
	assert.Equal(t, engine.TenderPeriod+1, st.TickCount)
	// 20 toll pillars earn 10 each on the tick after the 10,000 build.
	assert.Equal(t, engine.StartingMoney-engine.TenderStandardCost+200, st.Money)
}
