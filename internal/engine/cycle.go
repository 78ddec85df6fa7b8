// Tick cycle: one simulated day folded over the whole tile map.
// Everything is recomputed from the tiles each tick; only money, the tick
// counter, fires, kickbacks, the pending event and the win flag carry over.
package engine

import (
	"log/slog"
	"math"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/economy"
	"github.com/nairobi-skylines/citysim/internal/entropy"
	"github.com/nairobi-skylines/citysim/internal/network"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// TickResult is what one tick reports back to the host.
type TickResult struct {
	Tick   int // tick counter after this cycle
	Net    float64
	Report economy.FinancialReport
	Events []Event

	// Functioning is keyed by anchor coordinate.
	Functioning map[world.Coord]bool
	// TilesChanged counts anchors whose road/power flags were rewritten.
	TilesChanged int
}

// Functioning reports whether a building operates this tick given its
// network status and the citywide power gate.
func Functioning(kind catalog.Kind, status network.Status, powerSufficient bool) bool {
	road := !catalog.NeedsRoad(kind) || status.RoadAccess
	if !road {
		return false
	}
	if !catalog.MustLookup(kind).RequiresPower() {
		return true
	}
	return powerSufficient && status.Powered
}

// tally accumulates per-building contributions for one tick.
type tally struct {
	population  int
	happiness   int
	penalty     int
	pollution   float64
	kiosks      int
	police      int
	settlements int
	stations    []world.Coord
}

// Tick advances the city by one day. It mutates s in place and draws every
// random number from rng, so a seeded source makes the cycle reproducible.
func Tick(s *State, rng entropy.Source) *TickResult {
	startTick := s.Stats.TickCount
	res := &TickResult{Functioning: make(map[world.Coord]bool)}

	// 1. Network pass.
	analysis := network.Analyze(s.Grid)
	res.TilesChanged = analysis.Apply(s.Grid)

	// 2. Global power gate.
	anchors := s.Grid.Anchors()
	capacity, demand := 0, 0
	for _, t := range anchors {
		cfg := t.Config()
		capacity += cfg.PowerProduction
		demand += cfg.PowerConsumption
	}
	sufficient := capacity >= demand
	blackout := !sufficient && demand > 0

	wasBlackout := s.Stats.PowerDemand > 0 && s.Stats.PowerCapacity < s.Stats.PowerDemand
	switch {
	case blackout && !wasBlackout:
		res.Events = append(res.Events, newEvent(startTick, CategoryPower,
			"citywide blackout: demand %d exceeds capacity %d", demand, capacity))
	case !blackout && wasBlackout:
		res.Events = append(res.Events, newEvent(startTick, CategoryPower, "power restored"))
	}

	// 3-4. Per-building status and accumulation.
	ledger := economy.NewLedger(s.Stats.TaxRate)
	var acc tally
	for _, t := range anchors {
		c := t.Coord()
		cfg := t.Config()
		status := analysis.Statuses[c]
		functioning := Functioning(t.Kind, status, sufficient)
		res.Functioning[c] = functioning

		acc.population += cfg.Population
		ledger.AddUpkeep(t.Kind, cfg.Upkeep)
		if functioning {
			ledger.AddRevenue(t.Kind, cfg.Revenue)
			acc.happiness += cfg.Happiness
			acc.pollution += cfg.Pollution
		}

		if cfg.Population > 0 {
			roadOK := !catalog.NeedsRoad(t.Kind) || status.RoadAccess
			if !roadOK {
				acc.penalty += NoRoadPenalty
			} else if cfg.RequiresPower() && (!status.Powered || !sufficient) {
				acc.penalty += NoPowerPenalty
			}
		}

		switch t.Kind {
		case catalog.Kiosk:
			if functioning {
				acc.kiosks++
			}
		case catalog.PoliceStation:
			if functioning {
				acc.police++
			}
		case catalog.FireStation:
			if functioning {
				acc.stations = append(acc.stations, c)
			}
		case catalog.InformalSettlement:
			acc.settlements++
		case catalog.Bar:
			if s.nextToResidential(c) {
				acc.penalty += BarNoisePenalty
			}
		}
	}

	// 5. Tax bands.
	rate := s.Stats.TaxRate
	if rate <= LowTaxRate {
		acc.happiness += LowTaxBonus
	}
	if rate >= HighTaxRate {
		acc.penalty += HighTaxPenalty
	}
	if rate >= HeavyTaxRate {
		acc.penalty += HeavyTaxPenalty
	}

	// 6. Traffic.
	trafficCapacity := max(1, analysis.RoadCount()*TrafficPerRoad)
	density := float64(acc.population) / float64(trafficCapacity)
	acc.penalty += trafficPenalty(density)

	// 7. Fire.
	firePenalty, emergency, fireEvents := s.burnFires(startTick, acc.stations, rng)
	acc.penalty += firePenalty
	ledger.AddEmergency(emergency)
	res.Events = append(res.Events, fireEvents...)
	if ev, ok := s.igniteRandom(startTick, rng); ok {
		res.Events = append(res.Events, ev)
	}

	// 8. Derived stats.
	pollution := math.Max(0, acc.pollution)
	insecurity := max(0, acc.population/PeoplePerInsecurity+
		SettlementInsecurity*acc.settlements-
		PoliceInsecurityOffset*acc.police)
	corruption := acc.kiosks + int(math.Floor(s.Stats.KickbackRevenue/KickbackPerCorruption))
	pollutionPenalty := 0
	if pollution > PollutionThreshold {
		pollutionPenalty = int(math.Floor((pollution - PollutionThreshold) / 2))
	}

	happiness := BaseHappiness + acc.happiness - corruption - insecurity - acc.penalty -
		pollutionPenalty - SettlementUnhappiness*acc.settlements
	if blackout {
		happiness -= BlackoutPenalty
	}
	happiness = clampHappiness(happiness)

	// 9. Money.
	ledger.AddKickbacks(s.Stats.KickbackRevenue)
	report := ledger.Report()

	s.Stats.Money += report.Net
	s.Stats.Population = acc.population
	s.Stats.Happiness = happiness
	s.Stats.Insecurity = insecurity
	s.Stats.Corruption = corruption
	s.Stats.Pollution = pollution
	s.Stats.PowerCapacity = capacity
	s.Stats.PowerDemand = demand
	s.Stats.TrafficDensity = density
	s.Report = report

	// 10. Clock and tender scheduling.
	s.Stats.TickCount++
	tick := s.Stats.TickCount
	if tick%TenderPeriod == 0 && !s.EventPending() {
		s.Stats.ActiveEvent = TenderExpressway
		res.Events = append(res.Events, newEvent(tick, CategoryTender, "expressway tender opened"))
	}

	// 11. Land grab.
	if tick%SettlementGrowthPeriod == 0 && insecurity > SettlementInsecurityThreshold {
		if ev, ok := s.growSettlement(tick, rng); ok {
			res.Events = append(res.Events, ev)
		}
	}

	res.Tick = tick
	res.Net = report.Net
	res.Report = report

	slog.Debug("tick complete",
		"tick", tick,
		"net", report.Net,
		"population", acc.population,
		"happiness", happiness,
		"fires", len(s.Fires),
	)
	return res
}

func (s *State) nextToResidential(c world.Coord) bool {
	for _, n := range c.Neighbors() {
		if t, ok := s.Grid.Get(n); ok && catalog.IsResidential(t.Kind) {
			return true
		}
	}
	return false
}

func trafficPenalty(density float64) int {
	if density <= 1.0 {
		return 0
	}
	return min(MaxTrafficPenalty, int(math.Floor((density-1.0)*TrafficPenaltyScale)))
}

func clampHappiness(h int) int {
	return max(MinHappiness, min(MaxHappiness, h))
}
