// Package network computes road connectivity and power propagation over the
// city grid. Power leaves every plant and travels only along road-type tiles.
package network

import (
	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// Status is the infrastructure access of one building.
type Status struct {
	RoadAccess bool
	Powered    bool
}

// Analysis is the result of one network pass. It is a pure function of the
// tile map it was computed from.
type Analysis struct {
	// Powered holds every plant coordinate and every road-type tile reachable
	// from a plant.
	Powered map[world.Coord]bool
	// Roads holds every road-type tile coordinate.
	Roads map[world.Coord]bool
	// Statuses is keyed by anchor coordinate. Reserved tiles have no entry.
	Statuses map[world.Coord]Status
}

// RoadCount returns the number of road-type tiles.
func (a *Analysis) RoadCount() int {
	return len(a.Roads)
}

// IsPowered reports whether c belongs to the powered network.
func (a *Analysis) IsPowered(c world.Coord) bool {
	return a.Powered[c]
}

// Analyze runs the multi-source BFS and derives per-building access.
func Analyze(g *world.Grid) *Analysis {
	a := &Analysis{
		Powered:  make(map[world.Coord]bool),
		Roads:    make(map[world.Coord]bool),
		Statuses: make(map[world.Coord]Status),
	}

	var queue []world.Coord
	for _, c := range g.Coords() {
		t := g.Tiles[c]
		if catalog.IsRoadType(t.Kind) {
			a.Roads[c] = true
		}
		if t.Kind == catalog.PowerPlant {
			a.Powered[c] = true
			queue = append(queue, c)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range current.Neighbors() {
			if a.Powered[n] || !a.Roads[n] {
				continue
			}
			a.Powered[n] = true
			queue = append(queue, n)
		}
	}

	for _, t := range g.Anchors() {
		a.Statuses[t.Coord()] = a.status(g, t)
	}
	return a
}

func (a *Analysis) status(g *world.Grid, t world.Tile) Status {
	var s Status
	for _, cell := range t.Footprint() {
		for _, n := range cell.Neighbors() {
			nt, ok := g.Get(n)
			if !ok {
				continue
			}
			if catalog.IsRoadType(nt.Kind) {
				s.RoadAccess = true
				if a.Powered[n] {
					s.Powered = true
				}
			}
			if nt.Kind == catalog.PowerPlant {
				s.Powered = true
			}
		}
	}

	if catalog.IsRoadType(t.Kind) {
		s.RoadAccess = true
		s.Powered = a.Powered[t.Coord()]
	}
	if t.Kind == catalog.PowerPlant {
		s.Powered = true
	}
	return s
}

// Apply writes the computed statuses onto anchor tiles whose flags differ and
// returns the number of tiles that changed.
func (a *Analysis) Apply(g *world.Grid) int {
	changed := 0
	for c, s := range a.Statuses {
		t, ok := g.Get(c)
		if !ok {
			continue
		}
		if t.HasRoadAccess == s.RoadAccess && t.IsPowered == s.Powered {
			continue
		}
		t.HasRoadAccess = s.RoadAccess
		t.IsPowered = s.Powered
		g.Set(t)
		changed++
	}
	return changed
}
