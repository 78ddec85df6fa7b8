// Tender resolution: the player's answer to the expressway tender.
package engine

import (
	"log/slog"
	"strings"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/world"
)

// TenderChoice is a resolution of the expressway tender.
type TenderChoice string

const (
	TenderStandard TenderChoice = "standard"
	TenderBribe    TenderChoice = "bribe"
	TenderReject   TenderChoice = "reject"
)

// ExpresswayRow is the grid edge the expressway is built along.
const ExpresswayRow = world.GridMin

// ParseTenderChoice validates a choice tag.
func ParseTenderChoice(s string) (TenderChoice, error) {
	switch c := TenderChoice(strings.ToLower(strings.TrimSpace(s))); c {
	case TenderStandard, TenderBribe, TenderReject:
		return c, nil
	default:
		return "", errors.InvalidEventChoicef("unknown tender choice %q", s)
	}
}

// TenderResult describes a resolved tender.
type TenderResult struct {
	Choice  TenderChoice
	Cost    float64
	Pillars []world.Coord // expressway tiles built
	Event   Event
}

// ResolveTender applies the player's decision on the pending tender.
func ResolveTender(s *State, choice TenderChoice) (*TenderResult, error) {
	if s.Stats.ActiveEvent != TenderExpressway {
		return nil, errors.InvalidEventChoicef("no tender is pending")
	}

	res := &TenderResult{Choice: choice}
	switch choice {
	case TenderStandard:
		if s.Stats.Money < TenderStandardCost {
			return nil, errors.InsufficientFundsf("standard tender needs %d", TenderStandardCost).
				WithMeta("money", s.Stats.Money)
		}
		s.Stats.Money -= TenderStandardCost
		s.Stats.Happiness = min(MaxHappiness, s.Stats.Happiness+TenderStandardHappy)
		res.Cost = TenderStandardCost
		res.Pillars = s.buildExpressway()
	case TenderBribe:
		s.Stats.Money -= TenderBribeCost
		s.Stats.Corruption += TenderBribeCorruption
		s.Stats.KickbackRevenue += TenderBribeKickback
		res.Cost = TenderBribeCost
		res.Pillars = s.buildExpressway()
	case TenderReject:
	default:
		return nil, errors.InvalidEventChoicef("unknown tender choice %q", choice)
	}

	s.Stats.ActiveEvent = NoEvent
	res.Event = newEvent(s.Stats.TickCount, CategoryTender,
		"expressway tender resolved: %s (%d pillars)", choice, len(res.Pillars))
	slog.Info("tender resolved",
		"choice", string(choice),
		"cost", res.Cost,
		"pillars", len(res.Pillars),
		"kickbacks", s.Stats.KickbackRevenue,
	)
	return res, nil
}

// buildExpressway lays expressway pillars along the ExpresswayRow edge, skipping
// cells that are already built on.
func (s *State) buildExpressway() []world.Coord {
	var built []world.Coord
	for x := world.GridMin; x < world.GridMax; x++ {
		c := world.Coord{X: x, Z: ExpresswayRow}
		if s.Grid.Occupied(c) {
			continue
		}
		s.Grid.Set(world.Tile{
			Kind:          catalog.ExpresswayPillar,
			X:             c.X,
			Z:             c.Z,
			HasRoadAccess: true,
			IsPowered:     true,
		})
		built = append(built, c)
	}
	return built
}
