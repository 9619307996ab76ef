package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// how often the menu pulls the latest beatmap snapshot from its source.
	refreshIntervalMS = 250

	sliderMaxWidth = 40
	sliderMinWidth = 10
	labelWidth     = 16
	// horizontal space taken by cursor, label and value around the slider.
	rowOverheadCols = 32

	refreshInterval = time.Duration(refreshIntervalMS) * time.Millisecond
)

// row identifies one adjustable line in the menu.
type row int

const (
	rowEnabled row = iota
	rowReactionTime
	rowSnap
	rowSnapNote
	rowCount
)
