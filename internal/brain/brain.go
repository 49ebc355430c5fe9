// Package brain hosts the serialized worker that exclusively owns the
// harmonic engine. All mutation — chat turns, idle observations, resets —
// flows through one goroutine via a request channel; callers never touch
// the state directly.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ardenlabs/harmonium/internal/energy"
	"github.com/ardenlabs/harmonium/internal/fhc"
	"github.com/ardenlabs/harmonium/internal/harmonic"
	"github.com/ardenlabs/harmonium/internal/persistence"
	"github.com/ardenlabs/harmonium/internal/respond"
)

// historyLines caps the conversation context fed to the backend: five
// exchanges, two lines each.
const historyLines = 10

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	ID        string            `json:"id"`
	Reply     string            `json:"reply"`
	Generated bool              `json:"generated"`
	Snapshot  harmonic.Snapshot `json:"snapshot"`
}

// Status is a read-only view of the mind.
type Status struct {
	Snapshot     harmonic.Snapshot `json:"snapshot"`
	Rule         string            `json:"rule"`
	Interactions uint64            `json:"interactions"`
	Observations uint64            `json:"observations"`
	Born         time.Time         `json:"born"`
	Watching     bool              `json:"watching"`
}

type requestKind uint8

const (
	reqTurn requestKind = iota
	reqObserve
	reqStatus
	reqReset
)

type request struct {
	kind    requestKind
	ctx     context.Context
	message string
	reply   chan response
}

type response struct {
	turn   TurnResult
	status Status
	err    error
}

// Brain owns the engine and serializes access to it.
type Brain struct {
	engine   *harmonic.Engine
	selector *respond.Selector
	db       *persistence.DB

	requests chan request
	done     chan struct{}

	// Loop-owned state; only the run goroutine touches these.
	interactions uint64
	observations uint64
	born         time.Time
	history      []string

	// Idle observation loop. watchMu guards watching and idleStop so that
	// stop/restart cycles from the API cannot race the watcher goroutine.
	watchMu  sync.Mutex
	watching bool
	idleStop chan struct{}
}

// New creates a Brain restored from a persisted record. Call Start before
// sending any requests.
func New(engine *harmonic.Engine, selector *respond.Selector, db *persistence.DB, rec persistence.Record) *Brain {
	return &Brain{
		engine:       engine,
		selector:     selector,
		db:           db,
		requests:     make(chan request),
		done:         make(chan struct{}),
		interactions: rec.Interactions,
		observations: rec.Observations,
		born:         rec.Born,
	}
}

// Start launches the worker goroutine.
func (b *Brain) Start() {
	go b.run()
}

// Stop halts the worker after a final save. Idempotent is not required;
// call exactly once at shutdown.
func (b *Brain) Stop() {
	b.StopWatching()
	close(b.done)
}

func (b *Brain) run() {
	for {
		select {
		case req := <-b.requests:
			b.handle(req)
		case <-b.done:
			b.save()
			slog.Info("brain stopped", "interactions", b.interactions, "observations", b.observations)
			return
		}
	}
}

func (b *Brain) handle(req request) {
	var resp response
	switch req.kind {
	case reqTurn:
		resp.turn = b.doTurn(req.ctx, req.message)
	case reqObserve:
		b.doObserve()
	case reqStatus:
		resp.status = b.doStatus()
	case reqReset:
		resp.err = b.doReset()
	}
	if req.reply != nil {
		req.reply <- resp
	}
}

// send dispatches a request to the worker and waits for its response.
func (b *Brain) send(ctx context.Context, req request) (response, error) {
	if err := ctx.Err(); err != nil {
		return response{}, err
	}
	req.ctx = ctx
	req.reply = make(chan response, 1)

	select {
	case b.requests <- req:
	case <-b.done:
		return response{}, fmt.Errorf("brain stopped")
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// Turn runs one chat turn: energy heuristic, engine advance, response
// selection, persistence. Safe for concurrent callers.
func (b *Brain) Turn(ctx context.Context, message string) (TurnResult, error) {
	resp, err := b.send(ctx, request{kind: reqTurn, message: message})
	if err != nil {
		return TurnResult{}, err
	}
	return resp.turn, nil
}

// Status returns the current view of the mind.
func (b *Brain) Status(ctx context.Context) (Status, error) {
	resp, err := b.send(ctx, request{kind: reqStatus})
	if err != nil {
		return Status{}, err
	}
	return resp.status, nil
}

// Reset returns the mind to its default seed state and clears the store.
func (b *Brain) Reset(ctx context.Context) error {
	resp, err := b.send(ctx, request{kind: reqReset})
	if err != nil {
		return err
	}
	return resp.err
}

func (b *Brain) doTurn(ctx context.Context, message string) TurnResult {
	if ctx == nil {
		ctx = context.Background()
	}
	b.interactions++

	snap := b.engine.Advance(energy.FromText(message))

	tc := respond.TurnContext{
		Snapshot:     snap,
		Interactions: b.interactions,
		Observations: b.observations,
		Born:         b.born,
		History:      b.history,
	}
	reply, generated := b.selector.Reply(ctx, message, tc)

	b.history = append(b.history,
		fmt.Sprintf("User: %s", message),
		fmt.Sprintf("Harmonium: %s", reply),
	)
	if len(b.history) > historyLines {
		b.history = b.history[len(b.history)-historyLines:]
	}

	result := TurnResult{
		ID:        uuid.NewString(),
		Reply:     reply,
		Generated: generated,
		Snapshot:  snap,
	}

	b.save()
	if err := b.db.SaveConversation(persistence.Conversation{
		ID:        result.ID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Message:   message,
		Reply:     reply,
		Resonance: snap.Resonance,
		Emotion:   snap.Emotion,
		Generated: generated,
	}); err != nil {
		slog.Warn("saving conversation failed", "error", err)
	}

	return result
}

func (b *Brain) doObserve() {
	b.observations++
	snap := b.engine.Advance(fhc.ObservationEnergy)
	slog.Debug("idle observation",
		"observations", b.observations,
		"resonance", fmt.Sprintf("%.3f", snap.Resonance),
		"emotion", snap.Emotion,
	)
	b.save()
}

func (b *Brain) doStatus() Status {
	return Status{
		Snapshot:     b.engine.Snapshot(),
		Rule:         b.engine.Rule().String(),
		Interactions: b.interactions,
		Observations: b.observations,
		Born:         b.born,
		Watching:     b.Watching(),
	}
}

func (b *Brain) doReset() error {
	b.engine.Reset()
	b.interactions = 0
	b.observations = 0
	b.born = time.Now().UTC()
	b.history = nil
	if err := b.db.Reset(); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	b.save()
	return nil
}

// save writes the whole mind document. Failure is logged and swallowed.
func (b *Brain) save() {
	rec := persistence.Record{
		State:        b.engine.State(),
		Interactions: b.interactions,
		Observations: b.observations,
		Born:         b.born,
		Rule:         b.engine.Rule().String(),
	}
	if err := b.db.SaveRecord(rec); err != nil {
		slog.Warn("saving mind state failed", "error", err)
	}
}

// StartWatching begins the idle observation loop: one fixed-energy advance
// per interval. No-op if already watching.
func (b *Brain) StartWatching(interval time.Duration) {
	if interval <= 0 {
		return
	}
	b.watchMu.Lock()
	if b.watching {
		b.watchMu.Unlock()
		return
	}
	b.watching = true
	stop := make(chan struct{})
	b.idleStop = stop
	b.watchMu.Unlock()

	// The goroutine captures interval and stop; it never reads the struct
	// fields, which a later restart will have replaced.
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case b.requests <- request{kind: reqObserve}:
				case <-stop:
					return
				case <-b.done:
					return
				}
			case <-stop:
				return
			case <-b.done:
				return
			}
		}
	}()
}

// StopWatching halts the idle loop.
func (b *Brain) StopWatching() {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	if !b.watching {
		return
	}
	b.watching = false
	close(b.idleStop)
	b.idleStop = nil
}

// Watching reports whether the idle loop is running.
func (b *Brain) Watching() bool {
	b.watchMu.Lock()
	defer b.watchMu.Unlock()
	return b.watching
}
