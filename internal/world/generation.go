// Landscape generation using layered simplex noise.
// Scatters acacia groves over a new city so the starting map is not bare.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/nairobi-skylines/citysim/internal/catalog"
)

// LandscapeConfig holds landscape generation parameters.
type LandscapeConfig struct {
	Seed       int64   // Random seed (0 = random)
	Threshold  float64 // Noise level (0.0–1.0) above which a tree grows
	CoreRadius int     // Cells within this Chebyshev radius of the origin stay clear
}

// DefaultLandscapeConfig returns a sparse grove layout that keeps the city
// centre open for building.
func DefaultLandscapeConfig() LandscapeConfig {
	return LandscapeConfig{
		Seed:       0,
		Threshold:  0.68,
		CoreRadius: 4,
	}
}

// GenerateLandscape plants acacia trees on empty cells where the noise field
// exceeds the threshold. Trees are written directly (no cost is charged).
// Returns the number of trees planted. The result depends only on the seed
// and the cells already occupied.
func GenerateLandscape(g *Grid, cfg LandscapeConfig) int {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	noise := opensimplex.NewNormalized(seed)

	planted := 0
	for x := GridMin; x < GridMax; x++ {
		for z := GridMin; z < GridMax; z++ {
			c := Coord{X: x, Z: z}
			if abs(x) <= cfg.CoreRadius && abs(z) <= cfg.CoreRadius {
				continue
			}
			if g.Occupied(c) {
				continue
			}
			if octaveNoise(noise, float64(x), float64(z), 3, 0.18, 0.5) < cfg.Threshold {
				continue
			}
			g.Set(Tile{
				Kind:          catalog.Acacia,
				X:             x,
				Z:             z,
				Rotation:      int(uint64(seed+int64(x*31+z)) % 4),
				HasRoadAccess: true,
				IsPowered:     true,
			})
			planted++
		}
	}
	return planted
}

// octaveNoise sums several noise octaves and normalises back to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
