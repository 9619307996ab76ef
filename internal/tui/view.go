package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justthedistance/jtd/internal/jump"
)

func (m Model) View() string {
	if m.quitting {
		if m.dirty {
			return "Saving settings...\n"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader())
	b.WriteString("\n\n")

	for r := range rowCount {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderPreview())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Render("Just The Distance")
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("reaction-time based jump distance")
	return title + "  " + subtitle
}

func (m Model) renderRow(r row) string {
	cursor := "  "
	labelStyle := lipgloss.NewStyle().Width(labelWidth)
	if r == m.cursor {
		cursor = "> "
		labelStyle = labelStyle.Foreground(lipgloss.Color("69")).Bold(true)
	}

	var label, value string
	switch r {
	case rowEnabled:
		label, value = "Enabled", checkbox(m.settings.Enabled)
	case rowReactionTime:
		label = "Reaction Time"
		slider := m.slider
		slider.Width = m.sliderWidth()
		value = slider.ViewAs(sliderPercent(m.settings)) + " " + jump.FormatReactionTime(m.DisplayedReactionTime())
	case rowSnap:
		label, value = "Snap to Nearest", checkbox(m.settings.SnapToNearest)
	case rowSnapNote:
		label = "Snap Note Type"
		value = fmt.Sprintf("‹ %s ›", jump.ClampSnap(m.settings.SnapNoteType).Name())
		if !m.settings.SnapToNearest {
			value = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(value)
		}
	case rowCount:
	}
	return cursor + labelStyle.Render(label) + value
}

func (m Model) sliderWidth() int {
	if m.width <= 0 {
		return sliderMaxWidth
	}
	return min(max(m.width-rowOverheadCols, sliderMinWidth), sliderMaxWidth)
}

func checkbox(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("[x]")
	}
	return "[ ]"
}

func (m Model) renderPreview() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))

	source := "selected map"
	if !m.ready {
		source = "defaults, waiting for a map"
	}
	if m.waitErr != nil {
		source = "defaults (" + m.waitErr.Error() + ")"
	}

	r := m.Result()
	lines := []string{
		fmt.Sprintf("%.1f BPM · %.1f NJS %s", r.BPM, r.NoteSpeed, muted.Render("("+source+")")),
		fmt.Sprintf("Half jump:    %g beats", r.HalfJump),
		fmt.Sprintf("Jump value:   %+.3f", r.JumpOffset),
		fmt.Sprintf("Jump dist.:   %.2f", r.JumpDistance),
		fmt.Sprintf("Reaction:     %s", jump.FormatReactionTime(jump.RoundToInt(r.EffectiveReactionTime))),
	}
	if !m.settings.Enabled {
		lines = append(lines, muted.Render("disabled: the map's own jump value is used"))
	}
	return border.Render(strings.Join(lines, "\n"))
}
