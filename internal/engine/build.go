package engine

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// PlaceResult describes a successful placement.
type PlaceResult struct {
	Anchor world.Coord
	Kind   catalog.Kind
	Cells  []world.Coord
	Cost   float64
	Money  float64 // treasury after the purchase
	Won    bool    // this placement won the game
	Event  Event
}

// RemoveResult describes a successful removal.
type RemoveResult struct {
	Anchor       world.Tile
	Cells        []world.Coord
	Evicted      bool // an informal settlement was cleared
	FiresCleared int
	Event        Event
}

// Place buys and places a building anchored at anchor. On any error the
// state is left untouched.
func Place(s *State, anchor world.Coord, kind catalog.Kind, rotation int) (*PlaceResult, error) {
	cfg, ok := catalog.Lookup(kind)
	if !ok || kind == catalog.Reserved {
		return nil, errors.InvalidArgumentf("cannot place building kind %q", kind)
	}
	if _, err := s.Grid.CheckPlacement(anchor, kind, rotation); err != nil {
		return nil, err
	}
	if s.Stats.Money < cfg.Cost {
		return nil, errors.InsufficientFundsf("%s costs %s, treasury holds %s",
			cfg.Label, humanize.Commaf(cfg.Cost), humanize.Commaf(s.Stats.Money)).
			WithMeta("cost", cfg.Cost).
			WithMeta("money", s.Stats.Money)
	}

	cells, err := s.Grid.Place(anchor, kind, rotation)
	if err != nil {
		return nil, err
	}
	s.Stats.Money -= cfg.Cost

	won := false
	if kind == catalog.WinKind && !s.Stats.GameWon {
		s.Stats.GameWon = true
		won = true
		slog.Info("city won", "tick", s.Stats.TickCount, "kind", kind)
	}

	return &PlaceResult{
		Anchor: anchor,
		Kind:   kind,
		Cells:  cells,
		Cost:   cfg.Cost,
		Money:  s.Stats.Money,
		Won:    won,
		Event:  newEvent(s.Stats.TickCount, CategoryBuild, "built %s at %s", cfg.Label, anchor),
	}, nil
}

// Remove demolishes the building covering c. Removal is not refunded.
func Remove(s *State, c world.Coord) (*RemoveResult, error) {
	anchor, cells, err := s.Grid.Remove(c)
	if err != nil {
		return nil, err
	}

	res := &RemoveResult{
		Anchor:       anchor,
		Cells:        cells,
		FiresCleared: s.clearFires(cells),
	}
	if anchor.Kind == catalog.InformalSettlement {
		s.evict()
		res.Evicted = true
		slog.Info("informal settlement evicted",
			"tick", s.Stats.TickCount,
			"at", anchor.Coord().String(),
			"happiness", s.Stats.Happiness,
			"corruption", s.Stats.Corruption,
		)
	}
	res.Event = newEvent(s.Stats.TickCount, CategoryBuild, "demolished %s at %s",
		anchor.Config().Label, anchor.Coord())
	return res, nil
}
