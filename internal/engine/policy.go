package engine

import "log/slog"

// SetTaxRate stores the tax multiplier. Values outside the usual 0.5-2.0
// range are accepted and applied literally on the next tick.
func SetTaxRate(s *State, rate float64) {
	slog.Debug("tax rate changed", "from", s.Stats.TaxRate, "to", rate)
	s.Stats.TaxRate = rate
}

// TogglePowerOverlay flips the power overlay flag and returns the new value.
func TogglePowerOverlay(s *State) bool {
	s.PowerOverlay = !s.PowerOverlay
	return s.PowerOverlay
}

// SetNight sets the cosmetic night flag.
func SetNight(s *State, night bool) {
	s.IsNight = night
}
