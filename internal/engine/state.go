package engine

import (
	"github.com/nairobi-skylines/citysim/internal/economy"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// Starting values for a new city.
const (
	StartingMoney     = 50000.0
	StartingHappiness = 50
	DefaultTaxRate    = 1.0
)

// EventTag names a scripted event awaiting a player decision.
type EventTag string

// NoEvent means no decision is pending.
const NoEvent EventTag = ""

// TenderExpressway is the periodic expressway tender.
const TenderExpressway EventTag = "tender_expressway"

// CityStats are the city-wide numbers. Everything except Money, TickCount,
// TaxRate, KickbackRevenue, ActiveEvent and GameWon is recomputed each tick.
type CityStats struct {
	Money           float64  `json:"money"`
	Population      int      `json:"population"`
	Happiness       int      `json:"happiness"`
	Insecurity      int      `json:"insecurity"`
	Corruption      int      `json:"corruption"`
	Pollution       float64  `json:"pollution"`
	PowerCapacity   int      `json:"powerCapacity"`
	PowerDemand     int      `json:"powerDemand"`
	TrafficDensity  float64  `json:"trafficDensity"`
	TickCount       int      `json:"tickCount"`
	TaxRate         float64  `json:"taxRate"`
	KickbackRevenue float64  `json:"kickbackRevenue"`
	ActiveEvent     EventTag `json:"activeEvent"`
	GameWon         bool     `json:"gameWon"`
}

// Fires maps a burning coordinate to the number of ticks it has survived.
type Fires map[world.Coord]int

// Coords returns the burning coordinates in grid order.
func (f Fires) Coords() []world.Coord {
	out := make([]world.Coord, 0, len(f))
	for c := range f {
		out = append(out, c)
	}
	world.SortCoords(out)
	return out
}

// State is the whole simulation: tile map, fires, stats, and the last
// financial report. The host owns one live instance.
type State struct {
	Grid   *world.Grid
	Fires  Fires
	Stats  CityStats
	Report economy.FinancialReport

	// Cosmetic flags for the rendering layer. The tick never reads them.
	PowerOverlay bool
	IsNight      bool
}

// NewState returns a fresh city with the starting treasury.
func NewState() *State {
	return &State{
		Grid:  world.NewGrid(),
		Fires: make(Fires),
		Stats: CityStats{
			Money:     StartingMoney,
			Happiness: StartingHappiness,
			TaxRate:   DefaultTaxRate,
		},
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := *s
	out.Grid = s.Grid.Clone()
	out.Fires = make(Fires, len(s.Fires))
	for c, d := range s.Fires {
		out.Fires[c] = d
	}
	return &out
}

// EventPending reports whether a scripted event awaits resolution.
func (s *State) EventPending() bool {
	return s.Stats.ActiveEvent != NoEvent
}
