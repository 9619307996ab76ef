// Package movement feeds computed jump values into the game's note movement parameters.
package movement

import (
	"github.com/sirupsen/logrus"

	"github.com/justthedistance/jtd/internal/beatmap"
	"github.com/justthedistance/jtd/internal/jump"
	"github.com/justthedistance/jtd/internal/settings"
)

// Sink receives the jump value the game should use. It is never read back.
type Sink interface {
	SetNoteJumpValue(v float32)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(v float32)

func (f SinkFunc) SetNoteJumpValue(v float32) { f(v) }

// Adjuster replaces the game's jump value with one derived from the
// configured reaction time whenever a difficulty starts.
type Adjuster struct {
	settings settings.Provider
	log      logrus.FieldLogger
}

// NewAdjuster returns an Adjuster reading settings from p. A nil logger uses the standard logrus logger.
func NewAdjuster(p settings.Provider, log logrus.FieldLogger) *Adjuster {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Adjuster{settings: p, log: log}
}

// Adjust returns the jump value for the given tempo and note speed.
// When the adjuster is disabled, current is returned untouched.
func (a *Adjuster) Adjust(bpm, noteSpeed, current float32) float32 {
	cfg := a.settings.Settings()
	if !cfg.Enabled {
		return current
	}

	p := cfg.Params()
	v := jump.JumpOffset(bpm, jump.NoteSpeedOrDefault(noteSpeed), p.ReactionTime, p.Snap)

	a.log.WithFields(logrus.Fields{
		"bpm":           bpm,
		"njs":           noteSpeed,
		"reaction_time": p.ReactionTime,
		"snap":          p.Snap.Name(),
	}).Infof("NJV: %v", v)
	return v
}

// Apply adjusts for snapshot s and pushes the result to sink.
func (a *Adjuster) Apply(s beatmap.Snapshot, current float32, sink Sink) float32 {
	v := a.Adjust(s.BPM, s.NoteSpeed, current)
	sink.SetNoteJumpValue(v)
	return v
}
