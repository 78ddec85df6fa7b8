package world

import (
	"fmt"
	"sort"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/errors"
)

// Tile is one occupied cell. A building occupies one anchor tile holding its
// real kind plus Reserved tiles whose parent points back at the anchor.
type Tile struct {
	Kind          catalog.Kind `json:"type"`
	X             int          `json:"x"`
	Z             int          `json:"z"`
	Rotation      int          `json:"rotation"`
	ParentX       *int         `json:"parentX,omitempty"`
	ParentZ       *int         `json:"parentZ,omitempty"`
	HasRoadAccess bool         `json:"hasRoadAccess"`
	IsPowered     bool         `json:"isPowered"`
}

// Coord returns the tile's position.
func (t Tile) Coord() Coord {
	return Coord{X: t.X, Z: t.Z}
}

// Parent returns the anchor coordinate of a reserved tile.
func (t Tile) Parent() (Coord, bool) {
	if t.ParentX == nil || t.ParentZ == nil {
		return Coord{}, false
	}
	return Coord{X: *t.ParentX, Z: *t.ParentZ}, true
}

// IsAnchor reports whether the tile holds a real building kind.
func (t Tile) IsAnchor() bool {
	return t.Kind != catalog.Reserved
}

// Config returns the catalog entry for the tile's kind.
func (t Tile) Config() catalog.Config {
	return catalog.MustLookup(t.Kind)
}

// Footprint returns every cell covered by the building anchored at t,
// anchor first.
func (t Tile) Footprint() []Coord {
	w, d := t.Config().Footprint(t.Rotation)
	return footprintCells(t.Coord(), w, d)
}

func footprintCells(anchor Coord, w, d int) []Coord {
	cells := make([]Coord, 0, w*d)
	for dx := 0; dx < w; dx++ {
		for dz := 0; dz < d; dz++ {
			cells = append(cells, anchor.Add(dx, dz))
		}
	}
	return cells
}

// Grid is the sparse tile store keyed by coordinate.
type Grid struct {
	Tiles map[Coord]Tile `json:"tiles"`
}

// NewGrid creates an empty grid.
func NewGrid() *Grid {
	return &Grid{Tiles: make(map[Coord]Tile)}
}

// Get returns the tile at c, if any.
func (g *Grid) Get(c Coord) (Tile, bool) {
	t, ok := g.Tiles[c]
	return t, ok
}

// Occupied reports whether any tile exists at c.
func (g *Grid) Occupied(c Coord) bool {
	_, ok := g.Tiles[c]
	return ok
}

// Set writes a tile at its own coordinate.
func (g *Grid) Set(t Tile) {
	g.Tiles[t.Coord()] = t
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.Tiles)
}

// Coords returns every occupied coordinate ordered by x then z, so callers
// that draw random numbers while iterating stay deterministic.
func (g *Grid) Coords() []Coord {
	out := make([]Coord, 0, len(g.Tiles))
	for c := range g.Tiles {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}

// Anchors returns every non-reserved tile in coordinate order.
func (g *Grid) Anchors() []Tile {
	out := make([]Tile, 0, len(g.Tiles))
	for _, c := range g.Coords() {
		if t := g.Tiles[c]; t.IsAnchor() {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the number of anchors of the given kind.
func (g *Grid) Count(kind catalog.Kind) int {
	n := 0
	for _, t := range g.Tiles {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// Resolve returns the anchor tile of the building covering c.
func (g *Grid) Resolve(c Coord) (Tile, bool) {
	t, ok := g.Tiles[c]
	if !ok {
		return Tile{}, false
	}
	if t.IsAnchor() {
		return t, true
	}
	parent, ok := t.Parent()
	if !ok {
		return Tile{}, false
	}
	anchor, ok := g.Tiles[parent]
	if !ok || !anchor.IsAnchor() {
		return Tile{}, false
	}
	return anchor, true
}

// CheckPlacement validates a placement without mutating the grid and returns
// the footprint cells it would occupy.
func (g *Grid) CheckPlacement(anchor Coord, kind catalog.Kind, rotation int) ([]Coord, error) {
	cfg, ok := catalog.Lookup(kind)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown building kind %q", kind)
	}
	if kind == catalog.Reserved {
		return nil, errors.InvalidArgumentf("reserved is not placeable")
	}
	if rotation < 0 || rotation > 3 {
		return nil, errors.InvalidArgumentf("rotation %d outside 0..3", rotation)
	}

	w, d := cfg.Footprint(rotation)
	cells := footprintCells(anchor, w, d)
	for _, c := range cells {
		if !c.InBounds() {
			return nil, errors.OutOfBoundsf("cell %s outside grid", c).
				WithMeta("x", c.X).WithMeta("z", c.Z)
		}
	}
	for _, c := range cells {
		if g.Occupied(c) {
			return nil, errors.TileOccupiedf("cell %s already occupied", c).
				WithMeta("x", c.X).WithMeta("z", c.Z)
		}
	}
	return cells, nil
}

// Place writes the anchor tile and its reserved fillers in one update.
// New anchors start optimistic: road access and power are assumed until the
// next network pass corrects them.
func (g *Grid) Place(anchor Coord, kind catalog.Kind, rotation int) ([]Coord, error) {
	cells, err := g.CheckPlacement(anchor, kind, rotation)
	if err != nil {
		return nil, err
	}

	g.Set(Tile{
		Kind:          kind,
		X:             anchor.X,
		Z:             anchor.Z,
		Rotation:      rotation,
		HasRoadAccess: true,
		IsPowered:     true,
	})
	for _, c := range cells[1:] {
		px, pz := anchor.X, anchor.Z
		g.Set(Tile{
			Kind:     catalog.Reserved,
			X:        c.X,
			Z:        c.Z,
			Rotation: rotation,
			ParentX:  &px,
			ParentZ:  &pz,
		})
	}
	return cells, nil
}

// Remove deletes the whole building covering c and returns its anchor and
// the cells that were cleared.
func (g *Grid) Remove(c Coord) (Tile, []Coord, error) {
	anchor, ok := g.Resolve(c)
	if !ok {
		return Tile{}, nil, errors.NotFoundf("no building at %s", c)
	}
	cells := anchor.Footprint()
	for _, cell := range cells {
		delete(g.Tiles, cell)
	}
	return anchor, cells, nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{Tiles: make(map[Coord]Tile, len(g.Tiles))}
	for c, t := range g.Tiles {
		if t.ParentX != nil {
			px := *t.ParentX
			t.ParentX = &px
		}
		if t.ParentZ != nil {
			pz := *t.ParentZ
			t.ParentZ = &pz
		}
		out.Tiles[c] = t
	}
	return out
}

// Validate checks the footprint invariant: every reserved tile points at an
// anchor whose footprint covers it, and every anchor's footprint is filled
// with its own reserved tiles.
func (g *Grid) Validate() error {
	for c, t := range g.Tiles {
		if c != t.Coord() {
			return fmt.Errorf("tile at %s records position %s", c, t.Coord())
		}
		if !c.InBounds() {
			return fmt.Errorf("tile at %s outside grid", c)
		}
		if !catalog.Valid(t.Kind) {
			return fmt.Errorf("tile at %s has unknown kind %q", c, t.Kind)
		}
		if t.Rotation < 0 || t.Rotation > 3 {
			return fmt.Errorf("tile at %s has rotation %d", c, t.Rotation)
		}
		if t.IsAnchor() {
			for _, cell := range t.Footprint()[1:] {
				filler, ok := g.Tiles[cell]
				if !ok || filler.IsAnchor() {
					return fmt.Errorf("building at %s missing filler at %s", c, cell)
				}
				if p, ok := filler.Parent(); !ok || p != c {
					return fmt.Errorf("filler at %s does not point at %s", cell, c)
				}
			}
			continue
		}
		parent, ok := t.Parent()
		if !ok {
			return fmt.Errorf("reserved tile at %s has no parent", c)
		}
		anchor, ok := g.Tiles[parent]
		if !ok || !anchor.IsAnchor() {
			return fmt.Errorf("reserved tile at %s points at missing anchor %s", c, parent)
		}
		covered := false
		for _, cell := range anchor.Footprint() {
			if cell == c {
				covered = true
				break
			}
		}
		if !covered {
			return fmt.Errorf("reserved tile at %s outside footprint of %s", c, parent)
		}
	}
	return nil
}

// SortCoords orders coordinates by x then z.
func SortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Z < cs[j].Z
	})
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(tiles=%d)", g.Len())
}
