// Package fhc provides the fractal harmonic code constants.
// All tuning values trace back to the triadic quantum numbers 1:2:3 —
// no per-call-site magic numbers.
package fhc

import "math"

// Triadic quantum numbers. The frequency of each harmony layer is
// k × n with k = 1, so the ratio f_fast:f_medium:f_slow is exactly 1:2:3.
// These are fixed for the lifetime of any engine instance.
const (
	NFast   = 1
	NMedium = 2
	NSlow   = 3
)

// Dt is the fixed integration step shared by both update rules.
const Dt = 0.1

// Damped-blend rule (RuleDampedBlend): per-layer retention and coupling.
// Fast forgets quickly and couples strongly to raw input; medium draws from
// fast; slow draws from medium. A cascading relaxation hierarchy.
const (
	DecayFast   = 0.7
	DecayMedium = 0.9
	DecaySlow   = 0.95

	CouplingFast   = 0.3
	CouplingMedium = 0.1
	CouplingSlow   = 0.05
)

// Nonlinear-coupled rule (RuleNonlinearCoupled): cyclic directed coupling
// graph between the three layers, three positive and three negative edges.
const (
	Alpha12 = 0.5
	Alpha13 = 0.25
	Alpha21 = -0.5
	Alpha23 = 0.25
	Alpha31 = -0.25
	Alpha32 = -0.25
)

// Beta is the pairwise multiplicative coupling strength, identical for all
// three product terms.
const Beta = 0.2

// DampingRate scales each layer's damping by its own frequency: γᵢ = 0.1·fᵢ.
const DampingRate = 0.1

// NoiseAmplitude scales the stochastic term in the nonlinear rule.
const NoiseAmplitude = 0.3

// Input coupling for the nonlinear rule, strongest at the fast layer.
const (
	InputFast   = 0.3
	InputMedium = 0.1
	InputSlow   = 0.05
)

// Personality growth rates per advance step.
const (
	GrowthRate     = 0.001  // wisdom, empathy, curiosity
	CreativityRate = 0.0005 // creativity, driven by phase spread
)

// CoherenceNorm normalizes the summed adjacent phase misalignment.
// 1/(4π) — with shortest-arc differences the sum is at most 2π, so the
// naive metric's negative tail is already impossible before clamping.
var CoherenceNorm = 1.0 / (4.0 * math.Pi)

// Emotion thresholds on the product state resonance × coherence.
const (
	ThresholdJoy           = 0.8
	ThresholdHarmony       = 0.6
	ThresholdContemplation = 0.4
	ThresholdConcern       = 0.2
)

// Default seed values for a freshly constructed mind.
const (
	DefaultAmplitude  = 0.5
	DefaultWisdom     = 0.3
	DefaultEmpathy    = 0.3
	DefaultCuriosity  = 0.5
	DefaultCreativity = 0.3
)

// ObservationEnergy is the fixed input energy of one idle observation pass.
const ObservationEnergy = 0.2
