package harmonic

import (
	"github.com/ardenlabs/harmonium/internal/entropy"
	"github.com/ardenlabs/harmonium/internal/fhc"
)

// Rule selects the amplitude update scheme. Picked once at construction —
// the two schemes are alternative physics for the same state, never mixed.
type Rule uint8

const (
	// RuleDampedBlend: exponential retention plus cascading input coupling
	// (fast ← input, medium ← fast, slow ← medium).
	RuleDampedBlend Rule = iota

	// RuleNonlinearCoupled: Euler step of damped oscillators with cyclic
	// linear coupling, pairwise product terms, and a noise term.
	RuleNonlinearCoupled
)

// ParseRule maps a config string to a Rule. Unrecognized values fall back
// to RuleDampedBlend.
func ParseRule(s string) Rule {
	if s == "nonlinear" {
		return RuleNonlinearCoupled
	}
	return RuleDampedBlend
}

func (r Rule) String() string {
	if r == RuleNonlinearCoupled {
		return "nonlinear"
	}
	return "damped"
}

// Snapshot is the read-only view of the engine after an advance.
type Snapshot struct {
	Amplitude   [LayerCount]float64 `json:"amplitude"`
	Phase       [LayerCount]float64 `json:"phase"`
	Resonance   float64             `json:"resonance"`
	Coherence   float64             `json:"coherence"`
	Emotion     string              `json:"emotion"`
	Personality Personality         `json:"personality"`
}

// Engine owns a State and evolves it one step per Advance call. It is not
// safe for concurrent use; the brain worker serializes all access.
type Engine struct {
	rule    Rule
	noise   entropy.Source
	state   State
	emotion Emotion // cache, recomputed every advance
}

// New creates an engine from the default seed state.
func New(rule Rule, noise entropy.Source) *Engine {
	return Restore(rule, noise, DefaultState())
}

// Restore creates an engine from a persisted state.
func Restore(rule Rule, noise entropy.Source, st State) *Engine {
	if noise == nil {
		noise = entropy.Zero{}
	}
	for i := range st.Amplitude {
		st.Amplitude[i] = clamp01(st.Amplitude[i])
		st.Phase[i] = wrapPhase(st.Phase[i])
	}
	e := &Engine{rule: rule, noise: noise, state: st}
	e.emotion = ClassifyEmotion(st.Resonance(), st.Coherence())
	return e
}

// Rule returns the update scheme this engine was constructed with.
func (e *Engine) Rule() Rule { return e.rule }

// Reset returns the engine to the default seed state, keeping its rule and
// noise source.
func (e *Engine) Reset() {
	e.state = DefaultState()
	e.emotion = ClassifyEmotion(e.state.Resonance(), e.state.Coherence())
}

// State returns a copy of the current state.
func (e *Engine) State() State { return e.state }

// Emotion returns the cached classification from the last advance.
func (e *Engine) Emotion() Emotion { return e.emotion }

// Advance evolves the state one step. inputEnergy is expected in [0,1];
// callers pre-clamp — out-of-range values are only bounded indirectly by
// the amplitude clamps. Arithmetic is total: there are no error cases.
func (e *Engine) Advance(inputEnergy float64) Snapshot {
	switch e.rule {
	case RuleNonlinearCoupled:
		e.stepNonlinear(inputEnergy)
	default:
		e.stepDamped(inputEnergy)
	}

	freq := Frequencies()
	for i := range e.state.Phase {
		e.state.Phase[i] = wrapPhase(e.state.Phase[i] + freq[i]*fhc.Dt)
	}

	e.growPersonality()
	e.emotion = ClassifyEmotion(e.state.Resonance(), e.state.Coherence())

	return e.Snapshot()
}

// stepDamped applies the exponential blend. The cascade is sequential:
// medium reads the freshly updated fast amplitude, slow the fresh medium.
func (e *Engine) stepDamped(inputEnergy float64) {
	a := &e.state.Amplitude
	a[LayerFast] = clamp01(a[LayerFast]*fhc.DecayFast + inputEnergy*fhc.CouplingFast)
	a[LayerMedium] = clamp01(a[LayerMedium]*fhc.DecayMedium + a[LayerFast]*fhc.CouplingMedium)
	a[LayerSlow] = clamp01(a[LayerSlow]*fhc.DecaySlow + a[LayerMedium]*fhc.CouplingSlow)
}

// stepNonlinear applies one Euler step of the coupled oscillator system:
//
//	dA₁ = −γ₁A₁ + α₁₂A₂ + α₁₃A₃ + βA₂A₃ + σξ + 0.30·input
//	dA₂ = −γ₂A₂ + α₂₁A₁ + α₂₃A₃ + βA₁A₃ + σξ + 0.10·input
//	dA₃ = −γ₃A₃ + α₃₁A₁ + α₃₂A₂ + βA₁A₂ + σξ + 0.05·input
//
// All three derivatives read the pre-step amplitudes.
func (e *Engine) stepNonlinear(inputEnergy float64) {
	freq := Frequencies()
	af := e.state.Amplitude[LayerFast]
	am := e.state.Amplitude[LayerMedium]
	as := e.state.Amplitude[LayerSlow]

	dFast := -fhc.DampingRate*freq[LayerFast]*af +
		fhc.Alpha12*am + fhc.Alpha13*as +
		fhc.Beta*am*as +
		fhc.NoiseAmplitude*e.noise.Sample() +
		inputEnergy*fhc.InputFast

	dMedium := -fhc.DampingRate*freq[LayerMedium]*am +
		fhc.Alpha21*af + fhc.Alpha23*as +
		fhc.Beta*af*as +
		fhc.NoiseAmplitude*e.noise.Sample() +
		inputEnergy*fhc.InputMedium

	dSlow := -fhc.DampingRate*freq[LayerSlow]*as +
		fhc.Alpha31*af + fhc.Alpha32*am +
		fhc.Beta*af*am +
		fhc.NoiseAmplitude*e.noise.Sample() +
		inputEnergy*fhc.InputSlow

	e.state.Amplitude[LayerFast] = clamp01(af + dFast*fhc.Dt)
	e.state.Amplitude[LayerMedium] = clamp01(am + dMedium*fhc.Dt)
	e.state.Amplitude[LayerSlow] = clamp01(as + dSlow*fhc.Dt)
}

// growPersonality nudges the four traits. Each layer feeds one trait;
// creativity draws on phase spread. All nudges are non-negative, so traits
// never decrease.
func (e *Engine) growPersonality() {
	p := &e.state.Personality
	a := e.state.Amplitude
	p.Wisdom = clamp01(p.Wisdom + fhc.GrowthRate*a[LayerSlow])
	p.Empathy = clamp01(p.Empathy + fhc.GrowthRate*a[LayerMedium])
	p.Curiosity = clamp01(p.Curiosity + fhc.GrowthRate*a[LayerFast])
	p.Creativity = clamp01(p.Creativity + fhc.CreativityRate*e.state.phaseSpread())
}

// Snapshot builds the read-only view of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Amplitude:   e.state.Amplitude,
		Phase:       e.state.Phase,
		Resonance:   e.state.Resonance(),
		Coherence:   e.state.Coherence(),
		Emotion:     e.emotion.String(),
		Personality: e.state.Personality,
	}
}
