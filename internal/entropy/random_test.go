package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(1234)
	b := NewSeeded(1234)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(17), b.Intn(17))
	}
	assert.Equal(t, int64(1234), a.Seed())
}

func TestCryptoRanges(t *testing.T) {
	c := NewCrypto()
	for i := 0; i < 200; i++ {
		f := c.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := c.Intn(4)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 4)
	}
	assert.Panics(t, func() { c.Intn(0) })
}

func TestNewPicksSource(t *testing.T) {
	assert.IsType(t, Crypto{}, New(0))
	assert.IsType(t, &Seeded{}, New(9))
}
