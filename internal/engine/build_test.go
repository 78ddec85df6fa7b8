package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/world"
)

func TestPlaceThenRemoveIsNotRefunded(t *testing.T) {
	st := NewState()
	mustPlace(t, st, -3, -3, catalog.Road)
	tilesBefore := st.Grid.Clone().Tiles

	res, err := Place(st, world.Coord{X: 4, Z: 4}, catalog.Apartment, 2)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, res.Cost)
	assert.Equal(t, StartingMoney-500-20000, res.Money)

	removed, err := Remove(st, world.Coord{X: 4, Z: 4})
	require.NoError(t, err)
	assert.Equal(t, catalog.Apartment, removed.Anchor.Kind)
	assert.False(t, removed.Evicted)

	assert.Equal(t, tilesBefore, st.Grid.Tiles)
	assert.Equal(t, StartingMoney-500-20000, st.Stats.Money)
}

func TestPlaceFailuresLeaveStateUntouched(t *testing.T) {
	testCases := []struct {
		name     string
		money    float64
		anchor   world.Coord
		kind     catalog.Kind
		rotation int
		code     errors.Code
	}{
		{"cannot afford", 1999, world.Coord{X: 5, Z: 5}, catalog.Kiosk, 0, errors.CodeInsufficientFunds},
		{"out of bounds", StartingMoney, world.Coord{X: 10, Z: 0}, catalog.Kiosk, 0, errors.CodeOutOfBounds},
		{"occupied", StartingMoney, world.Coord{X: 0, Z: 0}, catalog.Kiosk, 0, errors.CodeTileOccupied},
		{"reserved", StartingMoney, world.Coord{X: 5, Z: 5}, catalog.Reserved, 0, errors.CodeInvalidArgument},
		{"bad rotation", StartingMoney, world.Coord{X: 5, Z: 5}, catalog.Kiosk, 7, errors.CodeInvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := NewState()
			mustPlace(t, st, 0, 0, catalog.Road)
			st.Stats.Money = tc.money
			before := st.Clone()

			_, err := Place(st, tc.anchor, tc.kind, tc.rotation)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code), err.Error())
			assert.Equal(t, before.Stats, st.Stats)
			assert.Equal(t, before.Grid.Tiles, st.Grid.Tiles)
		})
	}
}

func TestPlaceSucceedsAfterFixingPrecondition(t *testing.T) {
	st := NewState()
	st.Stats.Money = 100

	_, err := Place(st, world.Coord{X: 0, Z: 0}, catalog.Road, 0)
	require.True(t, errors.IsCode(err, errors.CodeInsufficientFunds))

	st.Stats.Money = 500
	_, err = Place(st, world.Coord{X: 0, Z: 0}, catalog.Road, 0)
	require.NoError(t, err)
	assert.Zero(t, st.Stats.Money)
}

func TestWinConditionIsSticky(t *testing.T) {
	st := richState()

	res, err := Place(st, world.Coord{X: 0, Z: 0}, catalog.NBKTower, 0)
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.True(t, st.Stats.GameWon)

	_, err = Remove(st, world.Coord{X: 1, Z: 1})
	require.NoError(t, err)
	assert.Zero(t, st.Grid.Len())

	Tick(st, quiet())
	assert.True(t, st.Stats.GameWon)
}

func TestRemoveAnyCellOfTower(t *testing.T) {
	for _, cell := range []world.Coord{{X: 2, Z: 2}, {X: 3, Z: 2}, {X: 2, Z: 3}, {X: 3, Z: 3}} {
		t.Run(cell.String(), func(t *testing.T) {
			st := richState()
			_, err := Place(st, world.Coord{X: 2, Z: 2}, catalog.NBKTower, 0)
			require.NoError(t, err)

			res, err := Remove(st, cell)
			require.NoError(t, err)
			assert.Len(t, res.Cells, 4)
			assert.Zero(t, st.Grid.Len())
		})
	}
}

func TestRemoveEmptyCell(t *testing.T) {
	st := NewState()
	_, err := Remove(st, world.Coord{X: 1, Z: 1})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestEvictionBacklash(t *testing.T) {
	st := NewState()
	st.Grid.Set(world.Tile{Kind: catalog.InformalSettlement, X: 0, Z: 0})
	st.Stats.Happiness = 15
	st.Stats.Corruption = 4

	res, err := Remove(st, world.Coord{X: 0, Z: 0})
	require.NoError(t, err)

	assert.True(t, res.Evicted)
	assert.Equal(t, 0, st.Stats.Happiness)
	assert.Equal(t, 14, st.Stats.Corruption)
}

func TestRemoveClearsFires(t *testing.T) {
	st := richState()
	_, err := Place(st, world.Coord{X: 0, Z: 0}, catalog.Mall, 0)
	require.NoError(t, err)
	require.True(t, st.Ignite(world.Coord{X: 0, Z: 0}))

	res, err := Remove(st, world.Coord{X: 1, Z: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FiresCleared)
	assert.Empty(t, st.Fires)
}

func TestPolicyControls(t *testing.T) {
	st := NewState()

	SetTaxRate(st, 2.7)
	assert.Equal(t, 2.7, st.Stats.TaxRate)

	assert.True(t, TogglePowerOverlay(st))
	assert.False(t, TogglePowerOverlay(st))

	SetNight(st, true)
	assert.True(t, st.IsNight)
}
