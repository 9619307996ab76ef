// Package beatmap supplies the tempo and note jump speed the calculator runs on:
// a tracker for the currently selected difficulty and loaders for level files.
package beatmap

import (
	"context"
	"fmt"
	"sync"

	"github.com/justthedistance/jtd/internal/validate"
)

// Snapshot is the tempo and note speed of one difficulty.
type Snapshot struct {
	BPM            float32 `json:"bpm" yaml:"bpm" validate:"gt=0"`
	NoteSpeed      float32 `json:"njs" yaml:"njs" validate:"gte=0"`
	Characteristic string  `json:"characteristic,omitempty" yaml:"characteristic,omitempty"`
	Difficulty     string  `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Validate checks BPM > 0 and NoteSpeed >= 0.
func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid beatmap snapshot (bpm=%v njs=%v): %w", s.BPM, s.NoteSpeed, err)
	}
	return nil
}

// Source is anything that can hand out the current snapshot.
type Source interface {
	Current() Snapshot
	Wait(ctx context.Context) (Snapshot, error)
}

// Default tempo and speed shown before any difficulty has been selected.
const (
	DefaultBPM       float32 = 120
	DefaultNoteSpeed float32 = 10
)

// Tracker caches the last snapshot a caller observed. Callers push changes
// with Observe and pull the latest value with Current or Wait.
type Tracker struct {
	mu        sync.RWMutex
	current   Snapshot
	ready     chan struct{}
	readyOnce sync.Once
}

// NewTracker returns a Tracker holding the default snapshot, not yet ready.
func NewTracker() *Tracker {
	return &Tracker{
		current: Snapshot{BPM: DefaultBPM, NoteSpeed: DefaultNoteSpeed},
		ready:   make(chan struct{}),
	}
}

// Observe records a newly selected difficulty.
func (t *Tracker) Observe(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
	t.markReady()
	return nil
}

// ObserveTempo records a content change that only carries the tempo; the
// note speed of the previous snapshot is kept.
func (t *Tracker) ObserveTempo(bpm float32) error {
	t.mu.RLock()
	s := t.current
	t.mu.RUnlock()
	s.BPM = bpm
	return t.Observe(s)
}

func (t *Tracker) markReady() {
	t.readyOnce.Do(func() { close(t.ready) })
}

// Current returns the last observed snapshot, or the defaults.
func (t *Tracker) Current() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Wait blocks until a snapshot has been observed or ctx is done.
func (t *Tracker) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-t.ready:
		return t.Current(), nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
