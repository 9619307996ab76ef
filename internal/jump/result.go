package jump

import "fmt"

// Params are the player-facing inputs of a calculation.
type Params struct {
	ReactionTime int
	Snap         Snap
}

// Result is every derived value for one (bpm, note speed) snapshot.
type Result struct {
	BPM                   float32 `json:"bpm"`
	NoteSpeed             float32 `json:"njs"`
	ReactionTime          int     `json:"reaction_time"`
	Snap                  Snap    `json:"snap"`
	HalfJump              float32 `json:"half_jump"`
	RawOffset             float32 `json:"raw_offset"`
	JumpOffset            float32 `json:"jump_offset"`
	JumpDistance          float32 `json:"jump_distance"`
	EffectiveReactionTime float32 `json:"effective_reaction_time"`
}

// Compute runs the full calculation, substituting DefaultNoteSpeed for a zero note speed.
func Compute(bpm, noteSpeed float32, p Params) Result {
	noteSpeed = NoteSpeedOrDefault(noteSpeed)
	rt := ClampReactionTime(p.ReactionTime)

	raw, halfJump := rawOffset(bpm, noteSpeed, rt)
	offset := p.Snap.Apply(raw)

	return Result{
		BPM:                   bpm,
		NoteSpeed:             noteSpeed,
		ReactionTime:          rt,
		Snap:                  p.Snap,
		HalfJump:              halfJump,
		RawOffset:             raw,
		JumpOffset:            offset,
		JumpDistance:          noteSpeed * beatsPerSecond(bpm) * (halfJump + offset) * 2,
		EffectiveReactionTime: EffectiveReactionTime(bpm, noteSpeed, rt, p.Snap),
	}
}

// FormatReactionTime renders milliseconds as "600ms", or "1.25s" from one second up.
func FormatReactionTime(ms int) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2fs", float32(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}
