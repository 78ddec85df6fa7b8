// Settlement lifecycle: informal settlements appear on empty land beside
// roads and apartments when insecurity runs high, and cost goodwill to evict.
package engine

import (
	"log/slog"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// growthCandidates returns empty in-bounds cells next to a road or apartment,
// each listed once, in grid order of the tile that exposes them.
func (s *State) growthCandidates() []world.Coord {
	seen := make(map[world.Coord]bool)
	var out []world.Coord
	for _, t := range s.Grid.Anchors() {
		if t.Kind != catalog.Road && t.Kind != catalog.Apartment {
			continue
		}
		for _, n := range t.Coord().Neighbors() {
			if seen[n] || !n.InBounds() || s.Grid.Occupied(n) {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// growSettlement places one informal settlement at a random candidate cell.
// It costs nothing and ignores the treasury.
func (s *State) growSettlement(tick int, rng entropy.Source) (Event, bool) {
	candidates := s.growthCandidates()
	if len(candidates) == 0 {
		return Event{}, false
	}

	spot := candidates[rng.Intn(len(candidates))]
	s.Grid.Set(world.Tile{
		Kind:     catalog.InformalSettlement,
		X:        spot.X,
		Z:        spot.Z,
		Rotation: rng.Intn(4),
	})

	slog.Info("informal settlement appeared",
		"tick", tick,
		"at", spot.String(),
		"insecurity", s.Stats.Insecurity,
	)
	return newEvent(tick, CategorySettlement, "informal settlement appeared at %s", spot), true
}

// evict applies the backlash of clearing an informal settlement.
func (s *State) evict() {
	s.Stats.Happiness = max(MinHappiness, s.Stats.Happiness-EvictionUnhappiness)
	s.Stats.Corruption += EvictionCorruption
}
