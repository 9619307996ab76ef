package tui

import "github.com/justthedistance/jtd/internal/beatmap"

// Message types for Bubble Tea update loop.

// snapshotMsg carries the tempo and note speed the preview is computed for.
type snapshotMsg struct{ Snapshot beatmap.Snapshot }

// waitErrMsg reports that the source never became ready.
type waitErrMsg struct{ Err error }

// refreshTickMsg triggers a pull of the current snapshot.
type refreshTickMsg struct{}

// savedMsg reports the outcome of persisting settings.
type savedMsg struct{ Err error }
