package brain

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlabs/harmonium/internal/harmonic"
	"github.com/ardenlabs/harmonium/internal/persistence"
	"github.com/ardenlabs/harmonium/internal/respond"
)

func newTestBrain(t *testing.T, db *persistence.DB) *Brain {
	t.Helper()
	rec := persistence.DefaultRecord()
	if db != nil {
		rec = db.LoadRecord()
	}
	eng := harmonic.Restore(harmonic.ParseRule(rec.Rule), nil, rec.State)
	b := New(eng, respond.NewSelector(nil, 1), db, rec)
	b.Start()
	t.Cleanup(b.Stop)
	return b
}

func TestTurnProducesReplyAndAdvancesState(t *testing.T) {
	b := newTestBrain(t, nil)

	res, err := b.Turn(context.Background(), "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Reply)
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.Generated)

	st, err := b.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Interactions)
	// Phases moved off zero.
	assert.Greater(t, st.Snapshot.Phase[harmonic.LayerFast], 0.0)
}

func TestConcurrentTurnsSerialize(t *testing.T) {
	b := newTestBrain(t, nil)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Turn(context.Background(), "hello from a goroutine")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := b.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(n), st.Interactions)
}

func TestTurnPersistsAcrossRestart(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	defer db.Close()

	b := New(harmonic.New(harmonic.RuleDampedBlend, nil), respond.NewSelector(nil, 1), db, db.LoadRecord())
	b.Start()
	_, err = b.Turn(context.Background(), "remember me")
	require.NoError(t, err)
	b.Stop()

	rec := db.LoadRecord()
	assert.Equal(t, uint64(1), rec.Interactions)
	assert.NotEqual(t, harmonic.DefaultState().Phase, rec.State.Phase)

	convs, err := db.RecentConversations(5)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "remember me", convs[0].Message)
}

func TestReset(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	defer db.Close()

	b := newTestBrain(t, db)
	_, err = b.Turn(context.Background(), "hello")
	require.NoError(t, err)

	require.NoError(t, b.Reset(context.Background()))

	st, err := b.Status(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Interactions)
	assert.Equal(t, harmonic.DefaultState().Amplitude, st.Snapshot.Amplitude)
}

func TestWatchingLoop(t *testing.T) {
	b := newTestBrain(t, nil)

	b.StartWatching(10 * time.Millisecond)
	assert.True(t, b.Watching())

	// Starting again is a no-op.
	b.StartWatching(10 * time.Millisecond)

	require.Eventually(t, func() bool {
		st, err := b.Status(context.Background())
		return err == nil && st.Observations >= 2
	}, 2*time.Second, 10*time.Millisecond)

	b.StopWatching()
	assert.False(t, b.Watching())
}

func TestWatchRestartCycles(t *testing.T) {
	b := newTestBrain(t, nil)

	// Rapid stop-then-restart, the sequence the watch toggle endpoint
	// drives. Each restart hands the goroutine a fresh stop channel.
	for i := 0; i < 200; i++ {
		b.StartWatching(time.Millisecond)
		b.StopWatching()
	}
	assert.False(t, b.Watching())

	// Concurrent toggles must not panic on a doubled channel close.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.StartWatching(time.Millisecond)
				b.StopWatching()
			}
		}()
	}
	wg.Wait()
	b.StopWatching()

	// The loop still works after all that churn.
	b.StartWatching(5 * time.Millisecond)
	require.Eventually(t, func() bool {
		st, err := b.Status(context.Background())
		return err == nil && st.Observations >= 1
	}, 2*time.Second, 5*time.Millisecond)
	b.StopWatching()
}

func TestTurnAfterStop(t *testing.T) {
	rec := persistence.DefaultRecord()
	b := New(harmonic.New(harmonic.RuleDampedBlend, nil), respond.NewSelector(nil, 1), nil, rec)
	b.Start()
	b.Stop()

	// The worker drains on stop; a subsequent turn must fail, not hang.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := b.Turn(ctx, "anyone home?")
	assert.Error(t, err)
}

func TestTurnContextCancelled(t *testing.T) {
	b := newTestBrain(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Turn(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
