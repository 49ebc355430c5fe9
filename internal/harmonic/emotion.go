package harmonic

import "github.com/ardenlabs/harmonium/internal/fhc"

// Emotion is the five-way classification of the (resonance, coherence)
// pair. Display and response-selection only — never control flow.
type Emotion uint8

const (
	Vigilance Emotion = iota
	Concern
	Contemplation
	Harmony
	Joy
)

var emotionNames = [...]string{"vigilance", "concern", "contemplation", "harmony", "joy"}

func (e Emotion) String() string {
	if int(e) < len(emotionNames) {
		return emotionNames[e]
	}
	return "harmony"
}

// ClassifyEmotion maps resonance and coherence to an emotion via the
// product state resonance × coherence. Thresholds are exact: >0.8 joy,
// >0.6 harmony, >0.4 contemplation, >0.2 concern, else vigilance.
func ClassifyEmotion(resonance, coherence float64) Emotion {
	state := resonance * coherence
	switch {
	case state > fhc.ThresholdJoy:
		return Joy
	case state > fhc.ThresholdHarmony:
		return Harmony
	case state > fhc.ThresholdContemplation:
		return Contemplation
	case state > fhc.ThresholdConcern:
		return Concern
	default:
		return Vigilance
	}
}
