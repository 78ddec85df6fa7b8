// Simulation owns the live city and serializes every mutation behind one lock.
package engine

import (
	"sync"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// MaxRecentEvents bounds the in-memory event log.
const MaxRecentEvents = 200

// Simulation holds the single live State. A tick, placement, removal, tax
// change, tender resolution or snapshot holds the lock for its whole duration.
type Simulation struct {
	mu     sync.Mutex
	state  *State
	rng    entropy.Source
	events []Event // most recent last
}

// NewSimulation wraps a state and the random source used by its ticks.
func NewSimulation(state *State, rng entropy.Source) *Simulation {
	if state == nil {
		state = NewState()
	}
	if rng == nil {
		rng = entropy.NewCrypto()
	}
	return &Simulation{state: state, rng: rng}
}

// Tick runs one cycle.
func (s *Simulation) Tick() *TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := Tick(s.state, s.rng)
	s.record(res.Events...)
	return res
}

// Place buys and places a building.
func (s *Simulation) Place(anchor world.Coord, kind catalog.Kind, rotation int) (*PlaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := Place(s.state, anchor, kind, rotation)
	if err != nil {
		return nil, err
	}
	s.record(res.Event)
	return res, nil
}

// Remove demolishes the building covering c.
func (s *Simulation) Remove(c world.Coord) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := Remove(s.state, c)
	if err != nil {
		return nil, err
	}
	s.record(res.Event)
	return res, nil
}

// ResolveTender answers the pending tender.
func (s *Simulation) ResolveTender(choice TenderChoice) (*TenderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := ResolveTender(s.state, choice)
	if err != nil {
		return nil, err
	}
	s.record(res.Event)
	return res, nil
}

// SetTaxRate stores the tax multiplier.
func (s *Simulation) SetTaxRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	SetTaxRate(s.state, rate)
}

// TogglePowerOverlay flips the overlay flag.
func (s *Simulation) TogglePowerOverlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TogglePowerOverlay(s.state)
}

// SetNight sets the night flag.
func (s *Simulation) SetNight(night bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	SetNight(s.state, night)
}

// Stats returns a copy of the current city stats.
func (s *Simulation) Stats() CityStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats
}

// EventPending reports whether a tender awaits resolution.
func (s *Simulation) EventPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.EventPending()
}

// Snapshot returns a deep copy of the live state.
func (s *Simulation) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Restore replaces the live state.
func (s *Simulation) Restore(state *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// DrainEvents returns and clears the buffered events.
func (s *Simulation) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

func (s *Simulation) record(events ...Event) {
	s.events = append(s.events, events...)
	if over := len(s.events) - MaxRecentEvents; over > 0 {
		s.events = s.events[over:]
	}
}
