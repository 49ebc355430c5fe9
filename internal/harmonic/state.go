// Package harmonic implements the triadic harmonic state engine: three
// coupled amplitude/phase tracks (fast, medium, slow) advanced one step per
// conversational turn, with derived resonance, coherence, and emotion.
package harmonic

import (
	"math"

	"github.com/ardenlabs/harmonium/internal/fhc"
)

// Layer indexes the three harmony tracks.
const (
	LayerFast = iota
	LayerMedium
	LayerSlow
	LayerCount
)

// Frequencies returns the fixed per-layer oscillation frequencies.
// The ratio is the triadic law f₁:f₂:f₃ = n₁:n₂:n₃ = 1:2:3; it never
// changes for the lifetime of an engine.
func Frequencies() [LayerCount]float64 {
	return [LayerCount]float64{fhc.NFast, fhc.NMedium, fhc.NSlow}
}

// Personality holds the four emergent trait scalars. Each is monotonically
// non-decreasing across advances and clamped at 1.0.
type Personality struct {
	Wisdom     float64 `json:"wisdom"`
	Empathy    float64 `json:"empathy"`
	Curiosity  float64 `json:"curiosity"`
	Creativity float64 `json:"creativity"`
}

// DefaultPersonality returns the seed traits of a freshly constructed mind.
func DefaultPersonality() Personality {
	return Personality{
		Wisdom:     fhc.DefaultWisdom,
		Empathy:    fhc.DefaultEmpathy,
		Curiosity:  fhc.DefaultCuriosity,
		Creativity: fhc.DefaultCreativity,
	}
}

// State is the complete mutable harmonic state. Amplitudes live in [0,1];
// phases are kept wrapped to [0,2π).
type State struct {
	Amplitude   [LayerCount]float64 `json:"amplitude"`
	Phase       [LayerCount]float64 `json:"phase"`
	Personality Personality         `json:"personality"`
}

// DefaultState returns the seed state: all amplitudes at 0.5, phases at 0.
func DefaultState() State {
	return State{
		Amplitude:   [LayerCount]float64{fhc.DefaultAmplitude, fhc.DefaultAmplitude, fhc.DefaultAmplitude},
		Personality: DefaultPersonality(),
	}
}

// Resonance is the aggregate magnitude of the three amplitudes: the
// geometric mean. It collapses to exactly 0 when any track is 0.
func (s State) Resonance() float64 {
	return math.Cbrt(s.Amplitude[LayerFast] * s.Amplitude[LayerMedium] * s.Amplitude[LayerSlow])
}

// Coherence measures phase alignment between adjacent tracks:
// 1 − (|Δφ₁₂|+|Δφ₂₃|)/(4π), using shortest-arc differences, clamped to
// [0,1]. Raw subtraction would mis-score phases on opposite sides of the
// wrap point.
func (s State) Coherence() float64 {
	spread := shortestArc(s.Phase[LayerFast], s.Phase[LayerMedium]) +
		shortestArc(s.Phase[LayerMedium], s.Phase[LayerSlow])
	return clamp01(1.0 - spread*fhc.CoherenceNorm)
}

// phaseSpread is the summed adjacent misalignment, also the creativity
// growth driver.
func (s State) phaseSpread() float64 {
	return shortestArc(s.Phase[LayerFast], s.Phase[LayerMedium]) +
		shortestArc(s.Phase[LayerMedium], s.Phase[LayerSlow])
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrapPhase reduces p to [0, 2π).
func wrapPhase(p float64) float64 {
	p = math.Mod(p, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}

// shortestArc returns the shortest angular distance between two phases,
// in [0, π].
func shortestArc(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
