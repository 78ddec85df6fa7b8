package persistence

import (
	"context"
	"time"

	"github.com/nairobi-skylines/citysim/internal/engine"
)

// SaveInfo describes one stored save.
type SaveInfo struct {
	ID      string    `json:"id" db:"id"`
	Slot    string    `json:"slot" db:"slot"`
	Tick    int       `json:"tick" db:"tick"`
	Money   float64   `json:"money" db:"money"`
	SavedAt time.Time `json:"savedAt" db:"-"`
}

// SaveInput contains parameters for writing a save
type SaveInput struct {
	Slot  string
	State *engine.State
}

// SaveOutput contains the result of writing a save
type SaveOutput struct {
	Info SaveInfo
}

// LoadInput contains parameters for reading a save
type LoadInput struct {
	Slot string
}

// LoadOutput contains a restored save
type LoadOutput struct {
	State *engine.State
	Info  SaveInfo
}

// Store keeps save blobs by slot name. Loading a missing slot returns a
// NotFound error; loading a damaged blob returns CorruptSaveData.
type Store interface {
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)
	Slots(ctx context.Context) ([]string, error)
	Close() error
}

// DefaultSlot is used when no slot name is given.
const DefaultSlot = "default"
