package engine

// Happiness baseline and bounds.
const (
	BaseHappiness = 50
	MinHappiness  = 0
	MaxHappiness  = 100
)

// Happiness penalties.
const (
	NoRoadPenalty   = 2  // population building without a road
	NoPowerPenalty  = 5  // road-connected population building without power
	BarNoisePenalty = 1  // bar next to a house or apartment
	BlackoutPenalty = 20 // demand exists but capacity falls short
)

// Tax bands. Both high bands apply at once above HeavyTaxRate.
const (
	LowTaxRate      = 0.8
	LowTaxBonus     = 5
	HighTaxRate     = 1.2
	HighTaxPenalty  = 10
	HeavyTaxRate    = 1.8
	HeavyTaxPenalty = 15
)

// Traffic.
const (
	TrafficPerRoad      = 15
	TrafficPenaltyScale = 20
	MaxTrafficPenalty   = 30
)

// Pollution above the threshold costs one happiness per two units.
const PollutionThreshold = 50

// Social.
const (
	PeoplePerInsecurity    = 10
	SettlementInsecurity   = 5
	PoliceInsecurityOffset = 5
	SettlementUnhappiness  = 5
	KickbackPerCorruption  = 50
)

// Fire model.
const (
	FireSpreadThreshold  = 2
	FireSuppressionRange = 3
	FireEmergencyCost    = 1000
	FireBurnPenalty      = 2
	IgnitionPeriod       = 5
	IgnitionChance       = 0.05
)

// Informal settlement growth.
const (
	SettlementGrowthPeriod        = 10
	SettlementInsecurityThreshold = 30
)

// Tender event.
const (
	TenderPeriod          = 24
	TenderStandardCost    = 10000
	TenderStandardHappy   = 5
	TenderBribeCost       = 2000
	TenderBribeCorruption = 10
	TenderBribeKickback   = 500
)

// Eviction backlash when an informal settlement is removed.
const (
	EvictionUnhappiness = 20
	EvictionCorruption  = 10
)
