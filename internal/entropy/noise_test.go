package entropy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaussianDeterministicForSeed(t *testing.T) {
	a := NewGaussian(99)
	b := NewGaussian(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(), b.Sample(), "draw %d", i)
	}
}

func TestGaussianRoughlyCentered(t *testing.T) {
	g := NewGaussian(1)
	const n = 10000
	var sum float64
	for i := 0; i < n; i++ {
		v := g.Sample()
		require.False(t, math.IsNaN(v))
		sum += v
	}
	assert.InDelta(t, 0.0, sum/n, 0.05)
}

func TestFractalDeterministicForSeed(t *testing.T) {
	a := NewFractal(7)
	b := NewFractal(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(), b.Sample(), "draw %d", i)
	}
}

func TestFractalBounded(t *testing.T) {
	f := NewFractal(3)
	for i := 0; i < 1000; i++ {
		v := f.Sample()
		require.False(t, math.IsNaN(v))
		// Octave-weighted sum of recentered [0,1] noise stays in [-1,1].
		require.GreaterOrEqual(t, v, -1.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestFractalCorrelatedSteps(t *testing.T) {
	// Successive draws should move smoothly, unlike white noise.
	f := NewFractal(5)
	prev := f.Sample()
	for i := 0; i < 100; i++ {
		cur := f.Sample()
		assert.Less(t, math.Abs(cur-prev), 1.0, "step %d", i)
		prev = cur
	}
}

func TestZeroSource(t *testing.T) {
	var z Zero
	for i := 0; i < 5; i++ {
		assert.Equal(t, 0.0, z.Sample())
	}
}
