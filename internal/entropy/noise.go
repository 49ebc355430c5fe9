// Package entropy provides the stochastic term for the nonlinear update
// rule. Two sources: a seeded Gaussian draw and a fractal (1/f-flavored)
// source built on opensimplex noise. Both are deterministic for a given
// seed so engine runs can be replayed in tests.
package entropy

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source yields one noise draw per amplitude update. Draws are roughly
// standard-normal shaped; the engine applies its own amplitude scaling.
type Source interface {
	Sample() float64
}

// gaussScale halves the raw normal draw, matching the half-width draws the
// harmonic model was tuned against.
const gaussScale = 0.5

// Gaussian is a seeded normal noise source.
type Gaussian struct {
	rng *rand.Rand
}

// NewGaussian creates a Gaussian source from a seed.
func NewGaussian(seed int64) *Gaussian {
	return &Gaussian{rng: rand.New(rand.NewSource(seed))}
}

// Sample returns a half-scaled standard normal draw.
func (g *Gaussian) Sample() float64 {
	return g.rng.NormFloat64() * gaussScale
}

// Fractal samples layered opensimplex noise along a time axis, giving
// draws with 1/f-style correlation between successive steps rather than
// white noise.
type Fractal struct {
	noise opensimplex.Noise
	t     float64
	step  float64
}

// fractalOctaves controls how many frequency doublings are summed.
const fractalOctaves = 3

// NewFractal creates a Fractal source from a seed.
func NewFractal(seed int64) *Fractal {
	return &Fractal{
		noise: opensimplex.NewNormalized(seed),
		step:  0.1,
	}
}

// Sample returns the next correlated draw and advances the internal clock.
func (f *Fractal) Sample() float64 {
	f.t += f.step

	var sum, norm float64
	freq := 1.0
	amp := 1.0
	for i := 0; i < fractalOctaves; i++ {
		// NewNormalized yields [0,1]; recenter to [-1,1].
		sum += (f.noise.Eval2(f.t*freq, float64(i))*2 - 1) * amp
		norm += amp
		freq *= 2
		amp /= 2
	}
	return sum / norm
}

// Zero is a silent source for fully deterministic runs.
type Zero struct{}

// Sample always returns 0.
func (Zero) Sample() float64 { return 0 }
