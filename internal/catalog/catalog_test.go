package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDefaultsFootprint(t *testing.T) {
	for _, k := range Kinds() {
		c, ok := Lookup(k)
		require.True(t, ok, k)
		assert.Equal(t, k, c.Kind)
		assert.GreaterOrEqual(t, c.Width, 1, k)
		assert.GreaterOrEqual(t, c.Depth, 1, k)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup(Kind("skyscraper"))
	assert.False(t, ok)
	assert.False(t, Valid(Kind("")))
	assert.Panics(t, func() { MustLookup(Kind("nope")) })
}

func TestFootprintRotation(t *testing.T) {
	mall := MustLookup(Mall)

	w, d := mall.Footprint(0)
	assert.Equal(t, [2]int{2, 1}, [2]int{w, d})
	w, d = mall.Footprint(1)
	assert.Equal(t, [2]int{1, 2}, [2]int{w, d})
	w, d = mall.Footprint(2)
	assert.Equal(t, [2]int{2, 1}, [2]int{w, d})
	w, d = mall.Footprint(3)
	assert.Equal(t, [2]int{1, 2}, [2]int{w, d})

	w, d = MustLookup(NBKTower).Footprint(1)
	assert.Equal(t, [2]int{2, 2}, [2]int{w, d})
}

func TestPredicates(t *testing.T) {
	testCases := []struct {
		kind        Kind
		roadType    bool
		needsRoad   bool
		flammable   bool
		residential bool
	}{
		{Road, true, false, false, false},
		{ExpresswayPillar, true, false, false, false},
		{Acacia, false, false, true, false},
		{Plantation, false, false, true, false},
		{InformalSettlement, false, false, true, false},
		{RundaHouse, false, true, true, true},
		{Apartment, false, true, true, true},
		{FireStation, false, true, true, false},
		{Reserved, false, true, false, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.roadType, IsRoadType(tc.kind))
			assert.Equal(t, tc.needsRoad, NeedsRoad(tc.kind))
			assert.Equal(t, tc.flammable, Flammable(tc.kind))
			assert.Equal(t, tc.residential, IsResidential(tc.kind))
		})
	}
}

func TestPowerCoefficients(t *testing.T) {
	assert.Equal(t, 50, MustLookup(PowerPlant).PowerProduction)
	assert.True(t, MustLookup(RundaHouse).RequiresPower())
	assert.False(t, MustLookup(Road).RequiresPower())
	assert.Equal(t, 2.0, MustLookup(Road).Upkeep)
	assert.Zero(t, MustLookup(Road).Revenue)
}
