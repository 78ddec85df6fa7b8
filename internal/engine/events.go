package engine

import "fmt"

// Event categories.
const (
	CategoryFire       = "fire"
	CategorySettlement = "settlement"
	CategoryTender     = "tender"
	CategoryPower      = "power"
	CategoryBuild      = "build"
)

// Event is a notable occurrence in the city.
type Event struct {
	Tick        int    `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func newEvent(tick int, category, format string, args ...any) Event {
	return Event{
		Tick:        tick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	}
}
