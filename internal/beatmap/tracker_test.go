package beatmap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Defaults(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Snapshot{BPM: 120, NoteSpeed: 10}, tr.Current())

	select {
	case <-tr.ready:
		t.Fatal("tracker should not be ready before the first observation")
	default:
	}
}

func TestTracker_ObserveAndWait(t *testing.T) {
	tr := NewTracker()

	done := make(chan Snapshot, 1)
	go func() {
		s, err := tr.Wait(context.Background())
		assert.NoError(t, err)
		done <- s
	}()

	want := Snapshot{BPM: 174, NoteSpeed: 18, Characteristic: "Standard", Difficulty: "Expert"}
	require.NoError(t, tr.Observe(want))

	select {
	case got := <-done:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Observe")
	}

	// Already ready: Wait returns immediately with the latest value.
	require.NoError(t, tr.ObserveTempo(200))
	got, err := tr.Wait(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 200, got.BPM, 0)
	assert.InDelta(t, 18, got.NoteSpeed, 0)
}

func TestTracker_WaitCanceled(t *testing.T) {
	tr := NewTracker()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTracker_RejectsInvalid(t *testing.T) {
	tr := NewTracker()
	require.Error(t, tr.Observe(Snapshot{BPM: 0, NoteSpeed: 10}))
	require.Error(t, tr.Observe(Snapshot{BPM: 120, NoteSpeed: -1}))
	require.Error(t, tr.ObserveTempo(-5))

	// Nothing was recorded.
	assert.Equal(t, Snapshot{BPM: DefaultBPM, NoteSpeed: DefaultNoteSpeed}, tr.Current())
	select {
	case <-tr.ready:
		t.Fatal("invalid snapshots must not mark the tracker ready")
	default:
	}

	// Zero note speed is allowed; the calculator substitutes a default.
	require.NoError(t, tr.Observe(Snapshot{BPM: 120, NoteSpeed: 0}))
}

func TestTracker_ConcurrentObservers(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 1; i <= 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = tr.Observe(Snapshot{BPM: float32(60 + i), NoteSpeed: float32(i)})
			_ = tr.Current()
		}(i)
	}
	wg.Wait()

	got := tr.Current()
	assert.InDelta(t, got.BPM-60, got.NoteSpeed, 0)
}
