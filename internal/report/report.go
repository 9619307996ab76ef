// Package report renders calculation results for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justthedistance/jtd/internal/beatmap"
	"github.com/justthedistance/jtd/internal/jump"
)

const reportWidth = 78

// Row is one calculated difficulty.
type Row struct {
	Level          string `json:"level,omitempty"`
	Path           string `json:"path,omitempty"`
	Characteristic string `json:"characteristic,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	// MapOffset is the jump value the mapper shipped, for comparison.
	MapOffset float32 `json:"map_offset"`
	jump.Result
}

// Report groups rows under the settings they were computed with.
type Report struct {
	ReactionTime int       `json:"reaction_time"`
	Snap         jump.Snap `json:"snap"`
	Rows         []Row     `json:"rows"`
	Errors       []string  `json:"errors,omitempty"`
}

// New starts an empty report for p.
func New(p jump.Params) *Report {
	return &Report{ReactionTime: p.ReactionTime, Snap: p.Snap, Rows: []Row{}}
}

// AddSnapshot computes and appends a row for a single snapshot.
func (r *Report) AddSnapshot(s beatmap.Snapshot) {
	r.Rows = append(r.Rows, Row{
		Characteristic: s.Characteristic,
		Difficulty:     s.Difficulty,
		Result:         jump.Compute(s.BPM, s.NoteSpeed, r.params()),
	})
}

// AddLevel computes and appends a row for every difficulty of l.
func (r *Report) AddLevel(l *beatmap.Level) {
	l.Each(func(d beatmap.Difficulty) {
		s := l.Snapshot(d)
		r.Rows = append(r.Rows, Row{
			Level:          l.Title,
			Path:           l.Path,
			Characteristic: d.Characteristic,
			Difficulty:     d.Name,
			MapOffset:      d.StartBeatOffset,
			Result:         jump.Compute(s.BPM, s.NoteSpeed, r.params()),
		})
	})
}

// AddError records a level that could not be loaded.
func (r *Report) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
}

func (r *Report) params() jump.Params {
	return jump.Params{ReactionTime: r.ReactionTime, Snap: r.Snap}
}

// Print writes the report as indented JSON or as an aligned table.
func Print(w io.Writer, r *Report, jsonOutput bool) error {
	if jsonOutput {
		output, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	}

	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, title.Render("JUST THE DISTANCE"))
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintf(w, "Reaction time: %s   Snap: %s\n\n", jump.FormatReactionTime(r.ReactionTime), r.Snap.Name())

	lastPath := ""
	for _, row := range r.Rows {
		if row.Path != "" && row.Path != lastPath {
			fmt.Fprintln(w, title.Render(levelHeading(row)))
			lastPath = row.Path
		}
		fmt.Fprintln(w, formatRow(row))
	}
	if len(r.Rows) == 0 {
		fmt.Fprintln(w, muted.Render("No difficulties found."))
	}

	for _, e := range r.Errors {
		fmt.Fprintln(w, warn.Render("✗ "+e))
	}
	return nil
}

func levelHeading(row Row) string {
	if row.Level == "" {
		return row.Path
	}
	return row.Level
}

func formatRow(row Row) string {
	name := strings.TrimSpace(row.Characteristic + " " + row.Difficulty)
	if name == "" {
		name = "-"
	}
	effective := jump.FormatReactionTime(jump.RoundToInt(row.EffectiveReactionTime))
	return fmt.Sprintf("  %-22s %6.1f bpm %5.1f njs  half %-4g  jv %+7.3f  jd %6.2f  rt %s",
		name, row.BPM, row.NoteSpeed, row.HalfJump, row.JumpOffset, row.JumpDistance, effective)
}
