package respond

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/harmonium/internal/harmonic"
	"github.com/ardenlabs/harmonium/internal/llm"
)

func testTurnContext() TurnContext {
	eng := harmonic.New(harmonic.RuleDampedBlend, nil)
	return TurnContext{
		Snapshot:     eng.Advance(0.5),
		Interactions: 3,
		Born:         time.Now().Add(-48 * time.Hour),
	}
}

func TestCannedReplyWithoutBackend(t *testing.T) {
	s := NewSelector(nil, 1)

	for _, msg := range []string{"hello", "what is resonance?", "teach me", "just thinking"} {
		text, generated := s.Reply(context.Background(), msg, testTurnContext())
		assert.False(t, generated)
		assert.NotEmpty(t, text, "message=%q", msg)
	}
}

func TestReplyUsesBackendWhenAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req struct {
				Prompt string `json:"prompt"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Prompt, "Resonance:")
			assert.Contains(t, req.Prompt, "User: hello there")
			json.NewEncoder(w).Encode(map[string]any{"response": "generated harmony", "done": true})
		}
	}))
	defer srv.Close()

	s := NewSelector(llm.NewClient(srv.URL, "", time.Second), 1)
	text, generated := s.Reply(context.Background(), "hello there", testTurnContext())
	assert.True(t, generated)
	assert.Equal(t, "generated harmony", text)
}

func TestReplyFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		time.Sleep(2 * time.Second) // well past the client timeout
	}))
	defer srv.Close()

	s := NewSelector(llm.NewClient(srv.URL, "", 100*time.Millisecond), 1)

	start := time.Now()
	text, generated := s.Reply(context.Background(), "hello", testTurnContext())
	elapsed := time.Since(start)

	assert.False(t, generated)
	assert.NotEmpty(t, text)
	// Degrades within the timeout bound plus a small epsilon.
	assert.Less(t, elapsed, time.Second)
}

func TestReplyFallsBackOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	s := NewSelector(llm.NewClient(srv.URL, "", 100*time.Millisecond), 1)
	text, generated := s.Reply(context.Background(), "hello", testTurnContext())
	assert.False(t, generated)
	assert.NotEmpty(t, text)
}

func TestCannedTemplatesAllRender(t *testing.T) {
	tc := testTurnContext()
	sets := [][]template{greetingTemplates, questionTemplates, learningTemplates, defaultTemplates}
	for _, set := range sets {
		require.NotEmpty(t, set)
		for _, tmpl := range set {
			assert.NotEmpty(t, strings.TrimSpace(tmpl(tc)))
		}
	}
}
