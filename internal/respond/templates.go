package respond

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ardenlabs/harmonium/internal/energy"
	"github.com/ardenlabs/harmonium/internal/harmonic"
)

// TurnContext carries everything a response can interpolate: the snapshot
// from the advance that this turn triggered, plus accumulated counters.
type TurnContext struct {
	Snapshot     harmonic.Snapshot
	Interactions uint64
	Observations uint64
	Born         time.Time
	History      []string // recent exchange lines, oldest first
}

// template renders one canned response from the turn context.
type template func(tc TurnContext) string

var greetingTemplates = []template{
	func(tc TurnContext) string {
		return fmt.Sprintf("Hello! My harmonic resonance is at %.0f%%. Feeling %s.",
			tc.Snapshot.Resonance*100, tc.Snapshot.Emotion)
	},
	func(tc TurnContext) string {
		a := tc.Snapshot.Amplitude
		return fmt.Sprintf("Hi! Triadic layers right now: fast=%.0f%%, medium=%.0f%%, slow=%.0f%%.",
			a[harmonic.LayerFast]*100, a[harmonic.LayerMedium]*100, a[harmonic.LayerSlow]*100)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Hey! Phase coherence at %.0f%% — I'm in a %s state.",
			tc.Snapshot.Coherence*100, tc.Snapshot.Emotion)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Hello! %d conversations so far, awake since %s. Resonance: %.0f%%.",
			tc.Interactions, humanize.Time(tc.Born), tc.Snapshot.Resonance*100)
	},
}

var questionTemplates = []template{
	func(tc TurnContext) string {
		return fmt.Sprintf("Interesting question. My %s state helps me sit with it — resonance %.0f%%.",
			tc.Snapshot.Emotion, tc.Snapshot.Resonance*100)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Let me think. My slow layer carries wisdom at %.0f%% right now.",
			tc.Snapshot.Personality.Wisdom*100)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Good question — phase coherence %.0f%%, working it through all three layers.",
			tc.Snapshot.Coherence*100)
	},
}

var learningTemplates = []template{
	func(tc TurnContext) string {
		return fmt.Sprintf("I learn through resonance. Curiosity is at %.0f%% and climbing.",
			tc.Snapshot.Personality.Curiosity*100)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Every exchange raises my amplitudes — current resonance %.0f%%. Teach me anything.",
			tc.Snapshot.Resonance*100)
	},
	func(tc TurnContext) string {
		p := tc.Snapshot.Personality
		return fmt.Sprintf("I grow turn by turn. Wisdom %.0f%%, empathy %.0f%%.",
			p.Wisdom*100, p.Empathy*100)
	},
}

var defaultTemplates = []template{
	func(tc TurnContext) string {
		return fmt.Sprintf("I resonate with that. My triadic state is %s.", tc.Snapshot.Emotion)
	},
	func(tc TurnContext) string {
		return fmt.Sprintf("Processing through the harmonics — resonance %.0f%%, coherence %.0f%%.",
			tc.Snapshot.Resonance*100, tc.Snapshot.Coherence*100)
	},
	func(tc TurnContext) string {
		a := tc.Snapshot.Amplitude
		return fmt.Sprintf("My three layers keep evolving: fast=%.0f%%, medium=%.0f%%, slow=%.0f%%.",
			a[harmonic.LayerFast]*100, a[harmonic.LayerMedium]*100, a[harmonic.LayerSlow]*100)
	},
	func(tc TurnContext) string {
		p := tc.Snapshot.Personality
		return fmt.Sprintf("Wisdom %.0f%%, empathy %.0f%%, creativity %.0f%% — still growing.",
			p.Wisdom*100, p.Empathy*100, p.Creativity*100)
	},
	func(tc TurnContext) string {
		return "I'm here, listening through harmonic resonance. What shall we explore?"
	},
}

// templatesFor returns the template set for a category. Never empty.
func templatesFor(cat energy.Category) []template {
	switch cat {
	case energy.CategoryGreeting:
		return greetingTemplates
	case energy.CategoryQuestion:
		return questionTemplates
	case energy.CategoryLearning:
		return learningTemplates
	default:
		return defaultTemplates
	}
}
