package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// stationCity has a kiosk burning at the origin and a road-served fire
// station dist cells east of it.
func stationCity(t *testing.T, dist int) *State {
	st := richState()
	mustPlace(t, st, 0, 0, catalog.Kiosk)
	mustPlace(t, st, dist, 0, catalog.FireStation)
	mustPlace(t, st, dist, 1, catalog.Road)
	require.True(t, st.Ignite(world.Coord{X: 0, Z: 0}))
	return st
}

func TestFireSuppressionRadius(t *testing.T) {
	t.Run("distance 3 is extinguished", func(t *testing.T) {
		st := stationCity(t, FireSuppressionRange)
		res := Tick(st, quiet())

		assert.Empty(t, st.Fires)
		assert.Equal(t, float64(FireEmergencyCost), res.Report.Expenses.Emergency)
		assert.Equal(t, 1, countCategory(res.Events, CategoryFire))
	})

	t.Run("distance 4 keeps burning", func(t *testing.T) {
		st := stationCity(t, FireSuppressionRange+1)
		res := Tick(st, quiet())

		assert.Equal(t, 1, st.Fires[world.Coord{X: 0, Z: 0}])
		assert.Zero(t, res.Report.Expenses.Emergency)
	})
}

func TestStationWithoutRoadDoesNotSuppress(t *testing.T) {
	st := richState()
	mustPlace(t, st, 0, 0, catalog.Kiosk)
	mustPlace(t, st, 1, 0, catalog.FireStation)
	require.True(t, st.Ignite(world.Coord{X: 0, Z: 0}))

	Tick(st, quiet())
	assert.Equal(t, 1, st.Fires[world.Coord{X: 0, Z: 0}])
}

func TestBurningAddsPenalty(t *testing.T) {
	st := richState()
	mustPlace(t, st, 0, 0, catalog.Acacia)
	require.True(t, st.Ignite(world.Coord{X: 0, Z: 0}))

	Tick(st, quiet())
	// Tree +2, one burning tile -2.
	assert.Equal(t, BaseHappiness+2-FireBurnPenalty, st.Stats.Happiness)
}

func TestFireSpreadsAfterThreshold(t *testing.T) {
	st := richState()
	origin := world.Coord{X: 0, Z: 0}
	east := world.Coord{X: 1, Z: 0}
	mustPlace(t, st, 0, 0, catalog.Acacia)
	mustPlace(t, st, 1, 0, catalog.Acacia)
	require.True(t, st.Ignite(origin))
	st.Fires[origin] = FireSpreadThreshold

	// Neighbour index 0 is east.
	res := Tick(st, &scripted{ints: []int{0}})

	assert.Equal(t, FireSpreadThreshold+1, st.Fires[origin])
	assert.Equal(t, 0, st.Fires[east], "new fire is not advanced this tick")
	assert.Equal(t, 1, countCategory(res.Events, CategoryFire))
}

func TestFireDoesNotSpreadBeforeThreshold(t *testing.T) {
	st := richState()
	origin := world.Coord{X: 0, Z: 0}
	mustPlace(t, st, 0, 0, catalog.Acacia)
	mustPlace(t, st, 1, 0, catalog.Acacia)
	require.True(t, st.Ignite(origin))
	st.Fires[origin] = FireSpreadThreshold - 1

	Tick(st, &scripted{ints: []int{0}})
	assert.Len(t, st.Fires, 1)
}

func TestFireDoesNotSpreadIntoRoadsOrEmptyCells(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, st *State)
	}{
		{"road", func(t *testing.T, st *State) { mustPlace(t, st, 1, 0, catalog.Road) }},
		{"empty", func(t *testing.T, st *State) {}},
		{"reserved", func(t *testing.T, st *State) { mustPlace(t, st, 1, -1, catalog.NBKTower) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := richState()
			origin := world.Coord{X: 0, Z: 0}
			mustPlace(t, st, 0, 0, catalog.Acacia)
			tc.setup(t, st)
			require.True(t, st.Ignite(origin))
			st.Fires[origin] = FireSpreadThreshold + 5

			Tick(st, &scripted{ints: []int{0}})
			assert.Len(t, st.Fires, 1)
		})
	}
}

func TestRandomIgnition(t *testing.T) {
	t.Run("fires on ignition tick", func(t *testing.T) {
		st := richState()
		mustPlace(t, st, 0, 0, catalog.Road)
		mustPlace(t, st, 1, 0, catalog.Kiosk)

		res := Tick(st, &scripted{floats: []float64{0.01}, ints: []int{0}})

		_, burning := st.Fires[world.Coord{X: 1, Z: 0}]
		assert.True(t, burning)
		assert.Len(t, st.Fires, 1)
		assert.Equal(t, 1, countCategory(res.Events, CategoryFire))
	})

	t.Run("no roll between ignition ticks", func(t *testing.T) {
		st := richState()
		mustPlace(t, st, 1, 0, catalog.Kiosk)
		st.Stats.TickCount = 1

		rng := &scripted{floats: []float64{0.01}}
		Tick(st, rng)
		assert.Empty(t, st.Fires)
		assert.Len(t, rng.floats, 1, "roll not consumed")
	})

	t.Run("roll above chance", func(t *testing.T) {
		st := richState()
		mustPlace(t, st, 1, 0, catalog.Kiosk)

		Tick(st, &scripted{floats: []float64{IgnitionChance}})
		assert.Empty(t, st.Fires)
	})

	t.Run("only roads", func(t *testing.T) {
		st := richState()
		mustPlace(t, st, 0, 0, catalog.Road)

		Tick(st, &scripted{floats: []float64{0.01}})
		assert.Empty(t, st.Fires)
	})
}

func TestIgniteRejectsRoadsAndDuplicates(t *testing.T) {
	st := richState()
	mustPlace(t, st, 0, 0, catalog.Road)
	mustPlace(t, st, 1, 0, catalog.Bar)

	assert.False(t, st.Ignite(world.Coord{X: 0, Z: 0}))
	assert.False(t, st.Ignite(world.Coord{X: 5, Z: 5}))
	assert.True(t, st.Ignite(world.Coord{X: 1, Z: 0}))
	assert.False(t, st.Ignite(world.Coord{X: 1, Z: 0}))
}
