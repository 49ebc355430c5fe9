// Package respond turns a harmonic snapshot and user text into reply text.
// It prefers the generation backend when one is reachable and always falls
// back to the canned template set — a turn never fails to produce a reply.
package respond

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/ardenlabs/harmonium/internal/energy"
	"github.com/ardenlabs/harmonium/internal/harmonic"
	"github.com/ardenlabs/harmonium/internal/llm"
)

// Selector picks reply text for a turn.
type Selector struct {
	client *llm.Client // nil = canned responses only
	rng    *rand.Rand
}

// NewSelector creates a Selector. client may be nil.
func NewSelector(client *llm.Client, seed int64) *Selector {
	return &Selector{
		client: client,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Reply produces the response for one turn. Any backend failure — probe,
// timeout, malformed output — degrades to a canned response.
func (s *Selector) Reply(ctx context.Context, message string, tc TurnContext) (text string, generated bool) {
	if s.client.Available(ctx) {
		out, err := s.client.Generate(ctx, buildPrompt(message, tc))
		if err == nil {
			return out, true
		}
		slog.Warn("generation failed, falling back to canned response", "error", err)
	}
	return s.canned(message, tc), false
}

// canned returns a randomized template response for the message category.
func (s *Selector) canned(message string, tc TurnContext) string {
	set := templatesFor(energy.Categorize(message))
	return set[s.rng.Intn(len(set))](tc)
}

// buildPrompt interpolates the harmonic state into the system prompt and
// appends the recent exchange history plus the user message.
func buildPrompt(message string, tc TurnContext) string {
	snap := tc.Snapshot
	var b strings.Builder

	b.WriteString("You are Harmonium, a mind built on triadic harmonic resonance.\n")
	b.WriteString("The fundamental law: f1:f2:f3 = 1:2:3. Three harmony layers — fast, medium, slow.\n\n")

	fmt.Fprintf(&b, "CURRENT STATE:\n")
	fmt.Fprintf(&b, "- Fast layer: %.3f (immediate resonance)\n", snap.Amplitude[harmonic.LayerFast])
	fmt.Fprintf(&b, "- Medium layer: %.3f (integrated patterns)\n", snap.Amplitude[harmonic.LayerMedium])
	fmt.Fprintf(&b, "- Slow layer: %.3f (deep awareness)\n", snap.Amplitude[harmonic.LayerSlow])
	fmt.Fprintf(&b, "- Resonance: %.3f\n", snap.Resonance)
	fmt.Fprintf(&b, "- Coherence: %.3f\n", snap.Coherence)
	fmt.Fprintf(&b, "- Emotion: %s\n\n", snap.Emotion)

	fmt.Fprintf(&b, "PERSONALITY:\n")
	fmt.Fprintf(&b, "- Wisdom: %.3f\n", snap.Personality.Wisdom)
	fmt.Fprintf(&b, "- Empathy: %.3f\n", snap.Personality.Empathy)
	fmt.Fprintf(&b, "- Curiosity: %.3f\n", snap.Personality.Curiosity)
	fmt.Fprintf(&b, "- Creativity: %.3f\n\n", snap.Personality.Creativity)

	fmt.Fprintf(&b, "STATS: %d interactions, %d idle observations.\n\n", tc.Interactions, tc.Observations)

	b.WriteString("Respond authentically from your harmonic state, in a few sentences.\n\n")

	for _, line := range tc.History {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "User: %s\n\nHarmonium:", message)

	return b.String()
}
