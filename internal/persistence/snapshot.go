package persistence

import (
	"bytes"
	"encoding/json"

	"github.com/nairobi-skylines/citysim/internal/economy"
	"github.com/nairobi-skylines/citysim/internal/engine"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// document is the on-disk save format. Required fields are pointers so a
// missing field can be told apart from a zero value.
type document struct {
	Money           *float64                   `json:"money"`
	Population      *int                       `json:"population"`
	Happiness       *int                       `json:"happiness"`
	Insecurity      *int                       `json:"insecurity"`
	Corruption      *int                       `json:"corruption"`
	Pollution       *float64                   `json:"pollution"`
	Tiles           map[world.Coord]world.Tile `json:"tiles"`
	TickCount       *int                       `json:"tickCount"`
	KickbackRevenue *float64                   `json:"kickbackRevenue"`
	Fires           map[world.Coord]int        `json:"fires"`
	GameWon         *bool                      `json:"gameWon"`
	TaxRate         *float64                   `json:"taxRate"`
	ActiveEvent     json.RawMessage            `json:"activeEvent"`

	// Last tick's readings, recomputed by the next tick. Optional; absent
	// values read as zero.
	PowerCapacity  *int     `json:"powerCapacity,omitempty"`
	PowerDemand    *int     `json:"powerDemand,omitempty"`
	TrafficDensity *float64 `json:"trafficDensity,omitempty"`

	// Display-only fields, optional.
	Financials   *economy.FinancialReport `json:"financials,omitempty"`
	PowerOverlay bool                     `json:"isPowerOverlay,omitempty"`
	IsNight      bool                     `json:"isNight,omitempty"`
}

// Encode serializes the state into a save blob.
func Encode(s *engine.State) ([]byte, error) {
	st := s.Stats
	event := json.RawMessage("null")
	if st.ActiveEvent != engine.NoEvent {
		raw, err := json.Marshal(string(st.ActiveEvent))
		if err != nil {
			return nil, errors.Wrap(err, "encode active event")
		}
		event = raw
	}

	fires := make(map[world.Coord]int, len(s.Fires))
	for c, d := range s.Fires {
		fires[c] = d
	}
	report := s.Report

	doc := document{
		Money:           &st.Money,
		Population:      &st.Population,
		Happiness:       &st.Happiness,
		Insecurity:      &st.Insecurity,
		Corruption:      &st.Corruption,
		Pollution:       &st.Pollution,
		Tiles:           s.Grid.Tiles,
		TickCount:       &st.TickCount,
		KickbackRevenue: &st.KickbackRevenue,
		Fires:           fires,
		GameWon:         &st.GameWon,
		TaxRate:         &st.TaxRate,
		ActiveEvent:     event,
		PowerCapacity:   &st.PowerCapacity,
		PowerDemand:     &st.PowerDemand,
		TrafficDensity:  &st.TrafficDensity,
		Financials:      &report,
		PowerOverlay:    s.PowerOverlay,
		IsNight:         s.IsNight,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode save")
	}
	return data, nil
}

// Decode parses a save blob. Any missing or inconsistent field fails with
// CorruptSaveData; nothing is filled in from defaults.
func Decode(data []byte) (*engine.State, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCorruptSaveData, "parse save")
	}

	missing := func(field string) error {
		return errors.CorruptSaveDataf("missing field %q", field).WithMeta("field", field)
	}
	switch {
	case doc.Money == nil:
		return nil, missing("money")
	case doc.Population == nil:
		return nil, missing("population")
	case doc.Happiness == nil:
		return nil, missing("happiness")
	case doc.Insecurity == nil:
		return nil, missing("insecurity")
	case doc.Corruption == nil:
		return nil, missing("corruption")
	case doc.Pollution == nil:
		return nil, missing("pollution")
	case doc.Tiles == nil:
		return nil, missing("tiles")
	case doc.TickCount == nil:
		return nil, missing("tickCount")
	case doc.KickbackRevenue == nil:
		return nil, missing("kickbackRevenue")
	case doc.Fires == nil:
		return nil, missing("fires")
	case doc.GameWon == nil:
		return nil, missing("gameWon")
	case doc.TaxRate == nil:
		return nil, missing("taxRate")
	case len(doc.ActiveEvent) == 0:
		return nil, missing("activeEvent")
	}

	event, err := decodeEvent(doc.ActiveEvent)
	if err != nil {
		return nil, err
	}

	stats := engine.CityStats{
		Money:           *doc.Money,
		Population:      *doc.Population,
		Happiness:       *doc.Happiness,
		Insecurity:      *doc.Insecurity,
		Corruption:      *doc.Corruption,
		Pollution:       *doc.Pollution,
		PowerCapacity:   valueOr(doc.PowerCapacity),
		PowerDemand:     valueOr(doc.PowerDemand),
		TrafficDensity:  valueOr(doc.TrafficDensity),
		TickCount:       *doc.TickCount,
		TaxRate:         *doc.TaxRate,
		KickbackRevenue: *doc.KickbackRevenue,
		ActiveEvent:     event,
		GameWon:         *doc.GameWon,
	}
	if err := validateStats(stats); err != nil {
		return nil, err
	}

	grid := &world.Grid{Tiles: doc.Tiles}
	for key, t := range doc.Tiles {
		if key != t.Coord() {
			return nil, errors.CorruptSaveDataf("tile key %s holds tile at %s", key, t.Coord()).
				WithMeta("field", "tiles")
		}
	}
	if err := grid.Validate(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCorruptSaveData, "invalid tiles").
			WithMeta("field", "tiles")
	}

	fires := make(engine.Fires, len(doc.Fires))
	for c, d := range doc.Fires {
		if d < 0 {
			return nil, errors.CorruptSaveDataf("fire at %s has duration %d", c, d).
				WithMeta("field", "fires")
		}
		if !grid.Occupied(c) {
			return nil, errors.CorruptSaveDataf("fire at %s burns on an empty cell", c).
				WithMeta("field", "fires")
		}
		fires[c] = d
	}

	st := &engine.State{
		Grid:         grid,
		Fires:        fires,
		Stats:        stats,
		PowerOverlay: doc.PowerOverlay,
		IsNight:      doc.IsNight,
	}
	if doc.Financials != nil {
		st.Report = *doc.Financials
	}
	return st, nil
}

func valueOr[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func decodeEvent(raw json.RawMessage) (engine.EventTag, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return engine.NoEvent, nil
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeCorruptSaveData, "parse activeEvent").
			WithMeta("field", "activeEvent")
	}
	if engine.EventTag(tag) != engine.TenderExpressway {
		return "", errors.CorruptSaveDataf("unknown event %q", tag).WithMeta("field", "activeEvent")
	}
	return engine.TenderExpressway, nil
}

func validateStats(st engine.CityStats) error {
	bad := func(field string, v any) error {
		return errors.CorruptSaveDataf("%s out of range: %v", field, v).WithMeta("field", field)
	}
	switch {
	case st.Happiness < engine.MinHappiness || st.Happiness > engine.MaxHappiness:
		return bad("happiness", st.Happiness)
	case st.Population < 0:
		return bad("population", st.Population)
	case st.Insecurity < 0:
		return bad("insecurity", st.Insecurity)
	case st.Corruption < 0:
		return bad("corruption", st.Corruption)
	case st.Pollution < 0:
		return bad("pollution", st.Pollution)
	case st.TickCount < 0:
		return bad("tickCount", st.TickCount)
	case st.KickbackRevenue < 0:
		return bad("kickbackRevenue", st.KickbackRevenue)
	case st.PowerCapacity < 0:
		return bad("powerCapacity", st.PowerCapacity)
	case st.PowerDemand < 0:
		return bad("powerDemand", st.PowerDemand)
	case st.TrafficDensity < 0:
		return bad("trafficDensity", st.TrafficDensity)
	}
	return nil
}
