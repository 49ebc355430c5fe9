package harmonic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/harmonium/internal/entropy"
)

func TestDampedBlendGoldenStep(t *testing.T) {
	e := New(RuleDampedBlend, nil)
	snap := e.Advance(0.7)

	// fast = 0.5*0.7 + 0.7*0.3, then the cascade reads the fresh values.
	assert.InDelta(t, 0.56, snap.Amplitude[LayerFast], 1e-12)
	assert.InDelta(t, 0.506, snap.Amplitude[LayerMedium], 1e-12)
	assert.InDelta(t, 0.5003, snap.Amplitude[LayerSlow], 1e-12)

	// Phases advance by f·dt with f = 1, 2, 3 and dt = 0.1.
	assert.InDelta(t, 0.1, snap.Phase[LayerFast], 1e-12)
	assert.InDelta(t, 0.2, snap.Phase[LayerMedium], 1e-12)
	assert.InDelta(t, 0.3, snap.Phase[LayerSlow], 1e-12)
}

func TestAmplitudesAndTraitsStayBounded(t *testing.T) {
	engines := map[string]*Engine{
		"damped":    New(RuleDampedBlend, nil),
		"nonlinear": New(RuleNonlinearCoupled, entropy.NewGaussian(7)),
	}

	energies := []float64{0.0, 0.1, 0.3, 0.5, 0.7, 1.0}
	for name, e := range engines {
		for step := 0; step < 500; step++ {
			snap := e.Advance(energies[step%len(energies)])
			for i, a := range snap.Amplitude {
				require.GreaterOrEqual(t, a, 0.0, "%s step %d layer %d", name, step, i)
				require.LessOrEqual(t, a, 1.0, "%s step %d layer %d", name, step, i)
			}
			for _, v := range []float64{
				snap.Personality.Wisdom, snap.Personality.Empathy,
				snap.Personality.Curiosity, snap.Personality.Creativity,
			} {
				require.GreaterOrEqual(t, v, 0.0, "%s step %d", name, step)
				require.LessOrEqual(t, v, 1.0, "%s step %d", name, step)
			}
		}
	}
}

func TestPersonalityMonotone(t *testing.T) {
	e := New(RuleNonlinearCoupled, entropy.NewFractal(11))
	prev := e.State().Personality
	for step := 0; step < 300; step++ {
		snap := e.Advance(float64(step%10) / 10)
		p := snap.Personality
		require.GreaterOrEqual(t, p.Wisdom, prev.Wisdom, "step %d", step)
		require.GreaterOrEqual(t, p.Empathy, prev.Empathy, "step %d", step)
		require.GreaterOrEqual(t, p.Curiosity, prev.Curiosity, "step %d", step)
		require.GreaterOrEqual(t, p.Creativity, prev.Creativity, "step %d", step)
		prev = p
	}
}

func TestPhasesStayWrapped(t *testing.T) {
	e := New(RuleDampedBlend, nil)
	for step := 0; step < 1000; step++ {
		snap := e.Advance(0.5)
		for i, p := range snap.Phase {
			require.GreaterOrEqual(t, p, 0.0, "step %d layer %d", step, i)
			require.Less(t, p, 2*math.Pi, "step %d layer %d", step, i)
		}
	}
}

func TestNonlinearDeterministicForSeed(t *testing.T) {
	a := New(RuleNonlinearCoupled, entropy.NewGaussian(42))
	b := New(RuleNonlinearCoupled, entropy.NewGaussian(42))

	for step := 0; step < 100; step++ {
		sa := a.Advance(0.4)
		sb := b.Advance(0.4)
		assert.Equal(t, sa, sb, "step %d", step)
	}
}

func TestNonlinearInputDrivesFastHardest(t *testing.T) {
	// With no noise, strong input should lift the fast layer above its
	// starting point faster than it lifts slow.
	e := New(RuleNonlinearCoupled, entropy.Zero{})
	var snap Snapshot
	for i := 0; i < 5; i++ {
		snap = e.Advance(1.0)
	}
	assert.Greater(t, snap.Amplitude[LayerFast], snap.Amplitude[LayerSlow])
}

func TestRestoreSanitizesPersistedState(t *testing.T) {
	st := State{
		Amplitude:   [LayerCount]float64{-0.5, 1.7, 0.4},
		Phase:       [LayerCount]float64{-1.0, 7.0, 2 * math.Pi},
		Personality: DefaultPersonality(),
	}
	e := Restore(RuleDampedBlend, nil, st)

	got := e.State()
	assert.Equal(t, 0.0, got.Amplitude[LayerFast])
	assert.Equal(t, 1.0, got.Amplitude[LayerMedium])
	assert.Equal(t, 0.4, got.Amplitude[LayerSlow])
	for i, p := range got.Phase {
		assert.GreaterOrEqual(t, p, 0.0, "layer %d", i)
		assert.Less(t, p, 2*math.Pi, "layer %d", i)
	}
}

func TestParseRule(t *testing.T) {
	assert.Equal(t, RuleNonlinearCoupled, ParseRule("nonlinear"))
	assert.Equal(t, RuleDampedBlend, ParseRule("damped"))
	assert.Equal(t, RuleDampedBlend, ParseRule(""))
	assert.Equal(t, RuleDampedBlend, ParseRule("bogus"))
}
