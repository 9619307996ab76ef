package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/settings/settings.go
//   type Settings struct {
//       ...
//       ReactionTime  int  `yaml:"reaction_time" validate:"reaction_time"`
//       SnapNoteType  int  `yaml:"snap_note_type" validate:"snap_note"`
//   }
//
// The custom tags keep the calculator's bounds in one place (internal/jump).

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/justthedistance/jtd/internal/jump"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		_ = validatorInst.RegisterValidation("snap_note", validSnapNote)
		_ = validatorInst.RegisterValidation("reaction_time", validReactionTime)
	})
	return validatorInst
}

// validSnapNote accepts a snap denominator in Whole..Eighth.
func validSnapNote(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= int64(jump.MinSnap) && n <= int64(jump.MaxSnap)
}

func validReactionTime(fl validator.FieldLevel) bool {
	return fl.Field().Int() >= jump.MinReactionTime
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
