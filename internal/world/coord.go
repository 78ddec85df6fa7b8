// Package world provides the city grid, tile records, and placement rules.
// Coordinates are integer (x, z) pairs on a fixed square grid.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid bounds: valid indices are GridMin <= x, z < GridMax.
const (
	GridMin = -10
	GridMax = 10
)

// Coord is a cell position on the grid.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// NeighborDirections defines the four orthogonal offsets (E, W, S, N).
var NeighborDirections = [4]Coord{
	{X: 1, Z: 0},
	{X: -1, Z: 0},
	{X: 0, Z: 1},
	{X: 0, Z: -1},
}

// Neighbors returns the four orthogonally adjacent coordinates.
func (c Coord) Neighbors() [4]Coord {
	var result [4]Coord
	for i, dir := range NeighborDirections {
		result[i] = Coord{X: c.X + dir.X, Z: c.Z + dir.Z}
	}
	return result
}

// Add returns c offset by dx, dz.
func (c Coord) Add(dx, dz int) Coord {
	return Coord{X: c.X + dx, Z: c.Z + dz}
}

// InBounds reports whether the coordinate lies on the grid.
func (c Coord) InBounds() bool {
	return c.X >= GridMin && c.X < GridMax && c.Z >= GridMin && c.Z < GridMax
}

// String returns the "x,z" form used as a save-file key.
func (c Coord) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Z)
}

// MarshalText lets Coord serve as a JSON object key.
func (c Coord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the "x,z" form.
func (c *Coord) UnmarshalText(text []byte) error {
	parsed, err := ParseCoord(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoord parses an "x,z" key.
func ParseCoord(s string) (Coord, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("coordinate %q: missing comma", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	z, err := strconv.Atoi(strings.TrimSpace(zs))
	if err != nil {
		return Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return Coord{X: x, Z: z}, nil
}

// Distance returns the Manhattan distance between two coordinates.
func Distance(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Z-b.Z)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
