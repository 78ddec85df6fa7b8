// Fire hazard: suppression by nearby stations, spread from long-burning
// tiles, and periodic random ignition.
package engine

import (
	"log/slog"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// burnFires processes every fire burning at the start of the tick. Fires lit
// during this pass are not advanced until the next tick.
func (s *State) burnFires(tick int, stations []world.Coord, rng entropy.Source) (penalty int, emergency float64, events []Event) {
	for _, c := range s.Fires.Coords() {
		if covered(c, stations) {
			delete(s.Fires, c)
			emergency += FireEmergencyCost
			events = append(events, newEvent(tick, CategoryFire, "fire at %s extinguished", c))
			continue
		}

		s.Fires[c]++
		penalty += FireBurnPenalty

		if s.Fires[c] <= FireSpreadThreshold {
			continue
		}
		n := c.Neighbors()[rng.Intn(len(world.NeighborDirections))]
		if s.canIgnite(n) {
			s.Fires[n] = 0
			events = append(events, newEvent(tick, CategoryFire, "fire spread from %s to %s", c, n))
			slog.Debug("fire spread", "from", c.String(), "to", n.String())
		}
	}
	return penalty, emergency, events
}

// igniteRandom rolls for a new fire on ignition ticks.
func (s *State) igniteRandom(tick int, rng entropy.Source) (Event, bool) {
	if tick%IgnitionPeriod != 0 {
		return Event{}, false
	}
	if rng.Float64() >= IgnitionChance {
		return Event{}, false
	}

	var eligible []world.Coord
	for _, c := range s.Grid.Coords() {
		if catalog.Flammable(s.Grid.Tiles[c].Kind) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Event{}, false
	}

	c := eligible[rng.Intn(len(eligible))]
	if _, burning := s.Fires[c]; burning {
		return Event{}, false
	}
	s.Fires[c] = 0
	slog.Info("fire broke out", "tick", tick, "at", c.String(), "kind", s.Grid.Tiles[c].Kind)
	return newEvent(tick, CategoryFire, "fire broke out at %s", c), true
}

// Ignite sets a fire at c if the tile there can burn. It reports whether a
// new fire was started.
func (s *State) Ignite(c world.Coord) bool {
	if !s.canIgnite(c) {
		return false
	}
	s.Fires[c] = 0
	return true
}

func (s *State) canIgnite(c world.Coord) bool {
	t, ok := s.Grid.Get(c)
	if !ok || !catalog.Flammable(t.Kind) {
		return false
	}
	_, burning := s.Fires[c]
	return !burning
}

// clearFires extinguishes any fire on the given cells.
func (s *State) clearFires(cells []world.Coord) int {
	n := 0
	for _, c := range cells {
		if _, ok := s.Fires[c]; ok {
			delete(s.Fires, c)
			n++
		}
	}
	return n
}

func covered(c world.Coord, stations []world.Coord) bool {
	for _, st := range stations {
		if world.Distance(c, st) <= FireSuppressionRange {
			return true
		}
	}
	return false
}
