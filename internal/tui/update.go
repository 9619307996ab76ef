package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justthedistance/jtd/internal/jump"
	"github.com/justthedistance/jtd/internal/settings"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = x.Width
		m.help.Width = x.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(x)

	case snapshotMsg:
		m.snapshot = x.Snapshot
		m.ready = true
		return m, nil

	case waitErrMsg:
		// Cancellation on shutdown is not worth reporting.
		if !errors.Is(x.Err, context.Canceled) {
			m.waitErr = x.Err
		}
		return m, nil

	case refreshTickMsg:
		if m.ready {
			m.snapshot = m.source.Current()
		}
		return m, m.tickRefresh()

	case savedMsg:
		m.saveErr = x.Err
		if x.Err != nil {
			m.status = "save failed: " + x.Err.Error()
		} else {
			m.dirty = false
			m.status = "saved"
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if save := m.saveCmd(); save != nil && m.dirty {
			// Quit once savedMsg comes back so a failed save is not lost.
			return m, save
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor + rowCount - 1) % rowCount
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % rowCount
		return m, nil

	case key.Matches(msg, m.keys.Decrease):
		m.adjust(-1)
		return m, nil

	case key.Matches(msg, m.keys.Increase):
		m.adjust(1)
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Reset):
		m.settings = settings.Defaults()
		m.markDirty()
		return m, nil
	}

	return m, nil
}

// adjust moves the selected slider by one step in direction dir.
func (m *Model) adjust(dir int) {
	switch m.cursor {
	case rowReactionTime:
		s := m.settings
		next := s.ReactionTime + dir*s.RTSliderIncrement
		next = min(max(next, s.MinRTSlider), s.MaxRTSlider)
		m.settings.SetReactionTime(next)
	case rowSnapNote:
		m.settings.SetSnapNoteType(m.settings.SnapNoteType + dir)
	case rowEnabled, rowSnap:
		m.toggle()
		return
	case rowCount:
		return
	}
	m.markDirty()
}

// toggle flips the selected boolean row.
func (m *Model) toggle() {
	switch m.cursor {
	case rowEnabled:
		m.settings.Enabled = !m.settings.Enabled
	case rowSnap:
		m.settings.SnapToNearest = !m.settings.SnapToNearest
	case rowReactionTime, rowSnapNote, rowCount:
		return
	}
	m.markDirty()
}

func (m *Model) markDirty() {
	m.dirty = true
	m.status = ""
}

// sliderPercent is the reaction time's position between the slider bounds.
func sliderPercent(s settings.Settings) float64 {
	span := s.MaxRTSlider - s.MinRTSlider
	if span <= 0 {
		return 1
	}
	pct := float64(jump.ClampReactionTime(s.ReactionTime)-s.MinRTSlider) / float64(span)
	return min(max(pct, 0), 1)
}
