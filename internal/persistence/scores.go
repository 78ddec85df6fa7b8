package persistence

import (
	"math"
	"time"

	"github.com/nairobi-skylines/citysim/internal/engine"
)

// MaxHighScores is the leaderboard length.
const MaxHighScores = 5

// HighScore is one leaderboard entry.
type HighScore struct {
	ID         string    `json:"id" db:"id"`
	Score      int64     `json:"score" db:"score"`
	Money      float64   `json:"money" db:"money"`
	Population int       `json:"population" db:"population"`
	Happiness  int       `json:"happiness" db:"happiness"`
	Corruption int       `json:"corruption" db:"corruption"`
	Ticks      int       `json:"ticks" db:"ticks"`
	Won        bool      `json:"won" db:"won"`
	RecordedAt time.Time `json:"recordedAt" db:"-"`
}

// Score is the composite rating: money plus 100 per resident plus 500 per
// happiness point, floored.
func Score(st engine.CityStats) int64 {
	return int64(math.Floor(st.Money + float64(st.Population)*100 + float64(st.Happiness)*500))
}

// NewHighScore builds a leaderboard entry from the city's current stats.
func NewHighScore(id string, st engine.CityStats, at time.Time) HighScore {
	return HighScore{
		ID:         id,
		Score:      Score(st),
		Money:      st.Money,
		Population: st.Population,
		Happiness:  st.Happiness,
		Corruption: st.Corruption,
		Ticks:      st.TickCount,
		Won:        st.GameWon,
		RecordedAt: at,
	}
}
