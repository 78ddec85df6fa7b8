// Package catalog provides the static table of building kinds and their
// economic and social coefficients. It has no dependencies and is loaded once.
package catalog

import "sort"

// Kind identifies a building type. The string values are the stable tags
// used in save files.
type Kind string

const (
	RundaHouse         Kind = "runda_house"
	Kiosk              Kind = "kiosk"
	Apartment          Kind = "apartment"
	Acacia             Kind = "acacia"
	Road               Kind = "road"
	KICC               Kind = "kicc"
	TimesTower         Kind = "times_tower"
	JamiaMosque        Kind = "jamia_mosque"
	UhuruPark          Kind = "uhuru_park"
	PoliceStation      Kind = "police_station"
	FireStation        Kind = "fire_station"
	Bar                Kind = "bar"
	PowerPlant         Kind = "power_plant"
	Dumpsite           Kind = "dumpsite"
	InformalSettlement Kind = "informal_settlement"
	NBKTower           Kind = "nbk_tower"
	ExpresswayPillar   Kind = "expressway_pillar"
	Factory            Kind = "factory"
	Mall               Kind = "mall"
	Plantation         Kind = "plantation"
	Office             Kind = "office"
	Reserved           Kind = "reserved" // Filler cell of a multi-tile footprint
)

// WinKind is the landmark whose placement wins the game.
const WinKind = NBKTower

// Config holds the immutable coefficients of one building kind.
// Absent fields are zero.
type Config struct {
	Kind             Kind    `json:"kind"`
	Label            string  `json:"label"`
	Cost             float64 `json:"cost"`
	Population       int     `json:"population,omitempty"`
	Happiness        int     `json:"happiness,omitempty"`
	Revenue          float64 `json:"revenue,omitempty"`
	Upkeep           float64 `json:"upkeep,omitempty"`
	Pollution        float64 `json:"pollution,omitempty"` // Positive pollutes, negative cleans
	PowerConsumption int     `json:"power_consumption,omitempty"`
	PowerProduction  int     `json:"power_production,omitempty"`
	Width            int     `json:"width"`
	Depth            int     `json:"depth"`
	Description      string  `json:"description"`
}

var table = map[Kind]Config{
	RundaHouse: {
		Label: "Runda House", Cost: 5000, Population: 5, Revenue: 50,
		PowerConsumption: 1, Pollution: 0.1,
		Description: "Low density housing. Needs 1 Power.",
	},
	Kiosk: {
		Label: "Kiosk", Cost: 2000, Revenue: 25, Pollution: 0.2,
		Description: "Small business. Adds +1 Corruption.",
	},
	Apartment: {
		Label: "Apartment", Cost: 20000, Population: 50, Revenue: 200,
		PowerConsumption: 5, Pollution: 1,
		Description: "High density. Needs 5 Power.",
	},
	Acacia: {
		Label: "Acacia Tree", Cost: 1000, Happiness: 2, Pollution: -0.5,
		Description: "Native vegetation. Cleans air.",
	},
	Road: {
		Label: "Road", Cost: 500, Upkeep: 2,
		Description: "Basic infrastructure. Costs upkeep.",
	},
	KICC: {
		Label: "KICC", Cost: 100000, Population: 100, Happiness: 10, Upkeep: 500, Revenue: 200,
		Description: "Iconic conference center. High maintenance.",
	},
	TimesTower: {
		Label: "Times Tower", Cost: 80000, Population: 150, Revenue: 1000, PowerConsumption: 20,
		Description: "Corporate headquarters. Huge tax generator.",
	},
	JamiaMosque: {
		Label: "Jamia Mosque", Cost: 40000, Happiness: 15, Upkeep: 100,
		Description: "Cultural landmark.",
	},
	UhuruPark: {
		Label: "Uhuru Park", Cost: 10000, Happiness: 20, Upkeep: 200, Pollution: -2,
		Description: "The green lung of the city.",
	},
	PoliceStation: {
		Label: "Police Station", Cost: 15000, Upkeep: 500,
		Description: "Reduces Insecurity by 5.",
	},
	FireStation: {
		Label: "Fire Station", Cost: 12000, Upkeep: 300,
		Description: "Extinguishes nearby fires (Cost: 1000 KES).",
	},
	Bar: {
		Label: "Club/Bar", Cost: 5000, Revenue: 100, Pollution: 0.5,
		Description: "High income. Noise reduces happiness.",
	},
	PowerPlant: {
		Label: "Geothermal Plant", Cost: 15000, Upkeep: 400, PowerProduction: 50, Pollution: 5,
		Description: "Generates 50 Power. Pollutes.",
	},
	Dumpsite: {
		Label: "Dandora Dump", Cost: 8000, Upkeep: 200, Pollution: -15,
		Description: "Manages waste. Reduces overall pollution.",
	},
	InformalSettlement: {
		Label: "Squatter Camp", Cost: 0, Happiness: -5,
		Description: "Unplanned settlement. Hard to remove.",
	},
	NBKTower: {
		Label: "NBK Tower", Cost: 500000, Revenue: 5000, PowerConsumption: 100, Happiness: 20,
		Width: 2, Depth: 2,
		Description: "The ultimate status symbol. Wins the game. Needs 2x2 space.",
	},
	ExpresswayPillar: {
		Label: "Expressway", Cost: 2000, Revenue: 10,
		Description: "Elevated toll road. Carries traffic and power.",
	},
	Factory: {
		Label: "Factory", Cost: 25000, Revenue: 300, Upkeep: 50, PowerConsumption: 10, Pollution: 8,
		Description: "Industrial jobs. Needs 10 Power. Pollutes heavily.",
	},
	Mall: {
		Label: "Mall", Cost: 30000, Revenue: 400, PowerConsumption: 8, Pollution: 1, Happiness: 5,
		Width: 2, Depth: 1,
		Description: "Shopping centre. Needs 8 Power and 2x1 space.",
	},
	Plantation: {
		Label: "Tea Plantation", Cost: 3000, Revenue: 40, Pollution: -1,
		Description: "Agricultural land. Works without roads.",
	},
	Office: {
		Label: "Office Block", Cost: 15000, Revenue: 150, PowerConsumption: 3, Pollution: 0.2,
		Description: "Commercial offices. Needs 3 Power.",
	},
	Reserved: {
		Label: "Reserved",
		Description: "Occupied space",
	},
}

func init() {
	for k, c := range table {
		c.Kind = k
		if c.Width == 0 {
			c.Width = 1
		}
		if c.Depth == 0 {
			c.Depth = 1
		}
		table[k] = c
	}
}

// Lookup returns the config for a kind and whether the kind is known.
func Lookup(k Kind) (Config, bool) {
	c, ok := table[k]
	return c, ok
}

// MustLookup returns the config for a kind known to be valid.
func MustLookup(k Kind) Config {
	c, ok := table[k]
	if !ok {
		panic("catalog: unknown kind " + string(k))
	}
	return c
}

// Valid reports whether k is a known kind.
func Valid(k Kind) bool {
	_, ok := table[k]
	return ok
}

// Kinds returns every known kind in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Footprint returns the width and depth occupied at the given rotation.
// Odd rotations swap the axes.
func (c Config) Footprint(rotation int) (width, depth int) {
	if rotation%2 != 0 {
		return c.Depth, c.Width
	}
	return c.Width, c.Depth
}

// RequiresPower reports whether the building consumes power.
func (c Config) RequiresPower() bool {
	return c.PowerConsumption > 0
}

// IsRoadType reports whether tiles of this kind carry traffic and power.
func IsRoadType(k Kind) bool {
	return k == Road || k == ExpresswayPillar
}

// IsResidential reports whether the kind houses residents affected by bar noise.
func IsResidential(k Kind) bool {
	return k == RundaHouse || k == Apartment
}

// NeedsRoad reports whether a building must touch a road to function.
func NeedsRoad(k Kind) bool {
	switch k {
	case Acacia, Plantation, InformalSettlement:
		return false
	}
	return !IsRoadType(k)
}

// Flammable reports whether a tile of this kind can catch fire.
func Flammable(k Kind) bool {
	return k != Reserved && !IsRoadType(k)
}
