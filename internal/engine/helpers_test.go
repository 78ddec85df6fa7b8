package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// scripted replays fixed draws. Once a queue is empty Float64 returns 0.99
// (no ignition) and Intn returns 0.
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func quiet() *scripted {
	return &scripted{}
}

func mustPlace(t *testing.T, s *State, x, z int, kind catalog.Kind) {
	t.Helper()
	_, err := Place(s, world.Coord{X: x, Z: z}, kind, 0)
	require.NoError(t, err, "place %s at %d,%d", kind, x, z)
}

func richState() *State {
	s := NewState()
	s.Stats.Money = 10_000_000
	return s
}

func countCategory(events []Event, category string) int {
	n := 0
	for _, ev := range events {
		if ev.Category == category {
			n++
		}
	}
	return n
}
