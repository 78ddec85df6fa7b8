package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/errors"
)

func TestPlaceSingleTile(t *testing.T) {
	g := NewGrid()

	cells, err := g.Place(Coord{X: 0, Z: 0}, catalog.Road, 0)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{0, 0}}, cells)
	assert.Equal(t, 1, g.Len())

	tile, ok := g.Get(Coord{0, 0})
	require.True(t, ok)
	assert.Equal(t, catalog.Road, tile.Kind)
	assert.True(t, tile.HasRoadAccess)
	assert.True(t, tile.IsPowered)
	assert.Nil(t, tile.ParentX)
}

func TestPlaceMultiTileWritesReservedFillers(t *testing.T) {
	g := NewGrid()

	cells, err := g.Place(Coord{X: 2, Z: 3}, catalog.NBKTower, 0)
	require.NoError(t, err)
	require.Len(t, cells, 4)
	assert.Equal(t, 4, g.Len())

	for _, c := range cells[1:] {
		tile, ok := g.Get(c)
		require.True(t, ok)
		assert.Equal(t, catalog.Reserved, tile.Kind)
		parent, ok := tile.Parent()
		require.True(t, ok)
		assert.Equal(t, Coord{2, 3}, parent)
	}
	require.NoError(t, g.Validate())
}

func TestPlaceRotatedFootprint(t *testing.T) {
	g := NewGrid()

	cells, err := g.Place(Coord{X: 0, Z: 0}, catalog.Mall, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Coord{{0, 0}, {0, 1}}, cells)

	cells, err = g.Place(Coord{X: 3, Z: 0}, catalog.Mall, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Coord{{3, 0}, {4, 0}}, cells)
	require.NoError(t, g.Validate())
}

func TestPlaceFailures(t *testing.T) {
	testCases := []struct {
		name     string
		anchor   Coord
		kind     catalog.Kind
		rotation int
		code     errors.Code
	}{
		{"anchor out of bounds", Coord{X: 10, Z: 0}, catalog.Road, 0, errors.CodeOutOfBounds},
		{"negative out of bounds", Coord{X: -11, Z: 0}, catalog.Road, 0, errors.CodeOutOfBounds},
		{"footprint spills over edge", Coord{X: 9, Z: 9}, catalog.NBKTower, 0, errors.CodeOutOfBounds},
		{"occupied anchor", Coord{X: 0, Z: 0}, catalog.Kiosk, 0, errors.CodeTileOccupied},
		{"footprint overlaps", Coord{X: -1, Z: -1}, catalog.NBKTower, 0, errors.CodeTileOccupied},
		{"reserved kind", Coord{X: 5, Z: 5}, catalog.Reserved, 0, errors.CodeInvalidArgument},
		{"unknown kind", Coord{X: 5, Z: 5}, catalog.Kind("casino"), 0, errors.CodeInvalidArgument},
		{"bad rotation", Coord{X: 5, Z: 5}, catalog.Road, 4, errors.CodeInvalidArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGrid()
			_, err := g.Place(Coord{0, 0}, catalog.Road, 0)
			require.NoError(t, err)
			before := g.Clone()

			_, err = g.Place(tc.anchor, tc.kind, tc.rotation)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code), err.Error())
			assert.Equal(t, before.Tiles, g.Tiles)
		})
	}
}

func TestRemoveAnyCellRemovesWholeBuilding(t *testing.T) {
	for _, cell := range []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		t.Run(cell.String(), func(t *testing.T) {
			g := NewGrid()
			_, err := g.Place(Coord{0, 0}, catalog.NBKTower, 0)
			require.NoError(t, err)

			anchor, cleared, err := g.Remove(cell)
			require.NoError(t, err)
			assert.Equal(t, catalog.NBKTower, anchor.Kind)
			assert.Len(t, cleared, 4)
			assert.Zero(t, g.Len())
		})
	}
}

func TestRemoveEmptyCell(t *testing.T) {
	g := NewGrid()
	_, _, err := g.Remove(Coord{3, 3})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRemoveRotatedBuilding(t *testing.T) {
	g := NewGrid()
	_, err := g.Place(Coord{0, 0}, catalog.Mall, 3)
	require.NoError(t, err)
	_, err = g.Place(Coord{1, 0}, catalog.Road, 0)
	require.NoError(t, err)

	_, cleared, err := g.Remove(Coord{0, 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Coord{{0, 0}, {0, 1}}, cleared)
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Occupied(Coord{1, 0}))
}

func TestPlaceThenRemoveRestoresGrid(t *testing.T) {
	g := NewGrid()
	_, err := g.Place(Coord{-5, -5}, catalog.Road, 0)
	require.NoError(t, err)
	before := g.Clone()

	_, err = g.Place(Coord{4, 4}, catalog.NBKTower, 1)
	require.NoError(t, err)
	_, _, err = g.Remove(Coord{4, 4})
	require.NoError(t, err)

	assert.Equal(t, before.Tiles, g.Tiles)
}

func TestCoordsDeterministicOrder(t *testing.T) {
	g := NewGrid()
	for _, c := range []Coord{{3, 1}, {-2, 5}, {3, -1}, {0, 0}} {
		_, err := g.Place(c, catalog.Acacia, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []Coord{{-2, 5}, {0, 0}, {3, -1}, {3, 1}}, g.Coords())
}

func TestValidateDetectsOrphanFiller(t *testing.T) {
	g := NewGrid()
	px, pz := 0, 0
	g.Set(Tile{Kind: catalog.Reserved, X: 1, Z: 0, ParentX: &px, ParentZ: &pz})
	assert.Error(t, g.Validate())
}

func TestCoordJSONKey(t *testing.T) {
	in := map[Coord]int{{X: -3, Z: 7}: 2}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"-3,7":2}`, string(data))

	var out map[Coord]int
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	_, err = ParseCoord("nonsense")
	assert.Error(t, err)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 3, Distance(Coord{0, 0}, Coord{1, -2}))
	assert.Equal(t, 4, Distance(Coord{0, 0}, Coord{0, 4}))
}
