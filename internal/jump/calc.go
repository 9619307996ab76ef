// Package jump derives the note jump value that makes obstacles appear a
// fixed reaction time ahead of the player, independent of the song's tempo
// and note jump speed.
//
// Every function here is pure and works in float32, the precision the game
// itself uses, so values match what the game would compute and display.
package jump

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	// MinReactionTime is the lowest reaction time, in milliseconds, the calculator accepts.
	MinReactionTime = 300

	// DefaultNoteSpeed replaces a note jump speed of zero, which maps leave unset.
	DefaultNoteSpeed float32 = 16

	halfJumpStart float32 = 4
	halfJumpFloor float32 = 0.25

	// maxJumpDistance is compared in float64, as the game compares against a double literal.
	maxJumpDistance = 17.999
)

// ClampReactionTime raises ms to MinReactionTime.
func ClampReactionTime(ms int) int {
	return max(ms, MinReactionTime)
}

// NoteSpeedOrDefault substitutes DefaultNoteSpeed for an unset (zero) note speed.
func NoteSpeedOrDefault(noteSpeed float32) float32 {
	if noteSpeed == 0 {
		return DefaultNoteSpeed
	}
	return noteSpeed
}

// beatsPerSecond is named after the game's own variable; it is actually seconds per beat.
func beatsPerSecond(bpm float32) float32 {
	return 60 / bpm
}

// HalfJumpDuration returns the game's half jump duration in beats: 4 halved
// until the jump distance fits under 18 units, then floored at a quarter beat.
// An infinite note speed halves down to zero, where the distance is NaN.
func HalfJumpDuration(bpm, noteSpeed float32) float32 {
	bps := beatsPerSecond(bpm)
	halfJump := halfJumpStart
	for float64(noteSpeed*bps*halfJump) > maxJumpDistance {
		halfJump /= 2
	}
	return math32.Max(halfJump, halfJumpFloor)
}

// rawOffset is the unsnapped jump offset for an already clamped reaction time.
func rawOffset(bpm, noteSpeed float32, reactionTime int) (offset, halfJump float32) {
	bps := beatsPerSecond(bpm)
	halfJump = HalfJumpDuration(bpm, noteSpeed)

	jumpDistance := float32(reactionTime) * (2 * noteSpeed) / 1000
	jumpDurationConstant := halfJump * bps * 2

	jumpDuration := jumpDistance / noteSpeed
	durationMultiplier := jumpDuration / jumpDurationConstant

	return halfJump*durationMultiplier - halfJump, halfJump
}

// JumpOffset returns the jump value that puts obstacles reactionTime
// milliseconds ahead of the player, snapped to snap when it is set.
//
// noteSpeed must already be non-zero; see NoteSpeedOrDefault.
func JumpOffset(bpm, noteSpeed float32, reactionTime int, snap Snap) float32 {
	offset, _ := rawOffset(bpm, noteSpeed, ClampReactionTime(reactionTime))
	return snap.Apply(offset)
}

// ReactionTime is the inverse of JumpOffset: the reaction time, in
// milliseconds, that a jump offset produces at the given tempo and speed.
func ReactionTime(bpm, noteSpeed, offset float32) float32 {
	noteSpeed = NoteSpeedOrDefault(noteSpeed)
	halfJump := HalfJumpDuration(bpm, noteSpeed)
	return reactionTimeFor(bpm, noteSpeed, halfJump, offset)
}

// reactionTimeFor keeps the unreduced expression so results stay
// bit-identical to the values the settings menu has always shown.
func reactionTimeFor(bpm, noteSpeed, halfJump, offset float32) float32 {
	bps := beatsPerSecond(bpm)
	return (noteSpeed * bps * (halfJump + offset) * 2) / (2 * noteSpeed) * 1000
}

// EffectiveReactionTime returns the reaction time a snapped jump offset
// actually yields. Without snapping it is reactionTime unchanged.
func EffectiveReactionTime(bpm, noteSpeed float32, reactionTime int, snap Snap) float32 {
	noteSpeed = NoteSpeedOrDefault(noteSpeed)
	if snap == NoSnap {
		return float32(reactionTime)
	}
	offset, halfJump := rawOffset(bpm, noteSpeed, reactionTime)
	return reactionTimeFor(bpm, noteSpeed, halfJump, snap.Apply(offset))
}

// JumpDistance returns the distance, in game units, between where notes
// spawn and where they reach the player.
func JumpDistance(bpm, noteSpeed, offset float32) float32 {
	noteSpeed = NoteSpeedOrDefault(noteSpeed)
	halfJump := HalfJumpDuration(bpm, noteSpeed)
	return noteSpeed * beatsPerSecond(bpm) * (halfJump + offset) * 2
}

// RoundToInt rounds half to even, like the game's Mathf.RoundToInt.
func RoundToInt(v float32) int {
	return int(math.RoundToEven(float64(v)))
}

func roundHalfEven(v float32) float32 {
	return float32(math.RoundToEven(float64(v)))
}
