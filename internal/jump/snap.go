package jump

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSnap is returned when a snap value is neither a known note name nor 0..8.
var ErrInvalidSnap = errors.New("invalid snap note type")

// Snap is the note subdivision jump offsets are rounded to.
// NoSnap disables rounding; Whole through Eighth snap to 1/n of a beat.
type Snap int

const (
	NoSnap Snap = iota
	Whole
	Half
	Third
	Quarter
	Fifth
	Sixth
	Seventh
	Eighth
)

const (
	MinSnap = Whole
	MaxSnap = Eighth
)

//nolint:gochecknoglobals // immutable lookup table.
var snapNames = [...]string{"Off", "Whole", "Half", "Third", "Quarter", "Fifth", "Sixth", "Seventh", "Eighth"}

// ClampSnap clamps n into Whole..Eighth.
func ClampSnap(n int) Snap {
	return Snap(min(max(n, int(MinSnap)), int(MaxSnap)))
}

// Valid reports whether s is NoSnap or a denominator in 1..8.
func (s Snap) Valid() bool {
	return s >= NoSnap && s <= MaxSnap
}

// Apply rounds offset to the nearest 1/s. Applying it twice is the same as applying it once.
func (s Snap) Apply(offset float32) float32 {
	if s == NoSnap || !s.Valid() {
		return offset
	}
	d := float32(s)
	return roundHalfEven(offset*d) / d
}

// Name returns the note name shown next to the snap slider.
func (s Snap) Name() string {
	if !s.Valid() {
		return fmt.Sprintf("Snap(%d)", int(s))
	}
	return snapNames[s]
}

func (s Snap) String() string { return s.Name() }

// ParseSnap accepts a note name ("quarter"), a denominator ("4"), or "off".
func ParseSnap(v string) (Snap, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		s := Snap(n)
		if !s.Valid() {
			return NoSnap, fmt.Errorf("%w: %d (expected 0-8)", ErrInvalidSnap, n)
		}
		return s, nil
	}
	switch strings.ToLower(v) {
	case "", "none", "off":
		return NoSnap, nil
	}
	for i, name := range snapNames {
		if strings.EqualFold(v, name) {
			return Snap(i), nil
		}
	}
	return NoSnap, fmt.Errorf("%w: %q", ErrInvalidSnap, v)
}

func (s Snap) MarshalText() ([]byte, error) {
	return []byte(s.Name()), nil
}

func (s *Snap) UnmarshalText(b []byte) error {
	parsed, err := ParseSnap(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
