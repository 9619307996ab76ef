// Package settings holds the player's jump-distance preferences and persists them to disk.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/justthedistance/jtd/internal/jump"
	"github.com/justthedistance/jtd/internal/validate"
)

// ErrUnknownKey is returned by Set for a key that is not a settings field.
var ErrUnknownKey = errors.New("unknown settings key")

// Settings is the persisted configuration. Slider bounds only affect the menu, never the math.
type Settings struct {
	Enabled           bool `yaml:"enabled" json:"enabled"`
	ReactionTime      int  `yaml:"reaction_time" json:"reaction_time" validate:"reaction_time"`
	SnapToNearest     bool `yaml:"snap_to_nearest" json:"snap_to_nearest"`
	SnapNoteType      int  `yaml:"snap_note_type" json:"snap_note_type" validate:"snap_note"`
	MinRTSlider       int  `yaml:"min_rt_slider" json:"min_rt_slider" validate:"reaction_time"`
	MaxRTSlider       int  `yaml:"max_rt_slider" json:"max_rt_slider" validate:"gtefield=MinRTSlider"`
	RTSliderIncrement int  `yaml:"rt_slider_increment" json:"rt_slider_increment" validate:"gte=1"`
}

// Provider supplies a read-only snapshot of the current settings.
type Provider interface {
	Settings() Settings
}

// Static is a Provider that always returns the same settings.
type Static Settings

func (s Static) Settings() Settings { return Settings(s) }

// Defaults returns the settings a fresh install starts with.
func Defaults() Settings {
	return Settings{
		Enabled:           true,
		ReactionTime:      600,
		SnapToNearest:     false,
		SnapNoteType:      int(jump.Quarter),
		MinRTSlider:       jump.MinReactionTime,
		MaxRTSlider:       1500,
		RTSliderIncrement: 10,
	}
}

// Snap returns the active snap, NoSnap when snapping is turned off.
func (s Settings) Snap() jump.Snap {
	if !s.SnapToNearest {
		return jump.NoSnap
	}
	return jump.ClampSnap(s.SnapNoteType)
}

// Params converts the settings into calculator inputs.
func (s Settings) Params() jump.Params {
	return jump.Params{ReactionTime: jump.ClampReactionTime(s.ReactionTime), Snap: s.Snap()}
}

// SetReactionTime stores ms, raised to the calculator minimum.
func (s *Settings) SetReactionTime(ms int) {
	s.ReactionTime = jump.ClampReactionTime(ms)
}

// SetSnapNoteType stores n clamped to Whole..Eighth.
func (s *Settings) SetSnapNoteType(n int) {
	s.SnapNoteType = int(jump.ClampSnap(n))
}

// Normalize clamps every field into range and reports whether anything changed.
func (s Settings) Normalize() (Settings, bool) {
	n := s
	n.SetReactionTime(n.ReactionTime)
	n.SetSnapNoteType(n.SnapNoteType)
	n.MinRTSlider = jump.ClampReactionTime(n.MinRTSlider)
	n.MaxRTSlider = max(n.MaxRTSlider, n.MinRTSlider)
	n.RTSliderIncrement = max(n.RTSliderIncrement, 1)
	return n, n != s
}

// Keys lists the names accepted by Set, in display order.
func Keys() []string {
	return []string{
		"enabled",
		"reaction_time",
		"snap_to_nearest",
		"snap_note_type",
		"min_rt_slider",
		"max_rt_slider",
		"rt_slider_increment",
	}
}

// Set assigns a field from its string form, applying the same clamps as the menu.
func (s *Settings) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "enabled", "snap_to_nearest":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "enabled" {
			s.Enabled = b
		} else {
			s.SnapToNearest = b
		}
		return nil
	case "snap_note_type":
		snap, err := jump.ParseSnap(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		// Snapping is switched off with snap_to_nearest, not with a note type.
		if validate.Var(int(snap), "snap_note") != nil {
			return fmt.Errorf("%s: %w: %q, set snap_to_nearest=false instead", key, jump.ErrInvalidSnap, value)
		}
		s.SetSnapNoteType(int(snap))
		return nil
	}

	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	switch key {
	case "reaction_time":
		s.SetReactionTime(n)
	case "min_rt_slider":
		s.MinRTSlider = jump.ClampReactionTime(n)
		s.MaxRTSlider = max(s.MaxRTSlider, s.MinRTSlider)
	case "max_rt_slider":
		s.MaxRTSlider = max(n, s.MinRTSlider)
	case "rt_slider_increment":
		s.RTSliderIncrement = max(n, 1)
	}
	return nil
}
