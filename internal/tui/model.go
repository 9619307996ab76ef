package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justthedistance/jtd/internal/beatmap"
	"github.com/justthedistance/jtd/internal/jump"
	"github.com/justthedistance/jtd/internal/settings"
)

// SaveFunc persists settings when the menu saves or quits.
type SaveFunc func(settings.Settings) error

// Model is the root Bubble Tea model for the settings menu.
type Model struct {
	ctx      context.Context
	settings settings.Settings
	source   beatmap.Source
	save     SaveFunc

	snapshot beatmap.Snapshot
	ready    bool
	waitErr  error

	cursor   row
	dirty    bool
	saveErr  error
	status   string
	width    int
	quitting bool

	slider      progress.Model
	help        help.Model
	helpVisible bool

	// keymap for consistent keybindings
	keys keyMap
}

// NewModel constructs a Model editing initial, previewing snapshots from source.
func NewModel(ctx context.Context, initial settings.Settings, source beatmap.Source, save SaveFunc) Model {
	slider := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	slider.Width = sliderMaxWidth
	return Model{
		ctx:      ctx,
		settings: initial,
		source:   source,
		save:     save,
		snapshot: source.Current(),
		slider:   slider,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Settings returns the settings as currently edited.
func (m Model) Settings() settings.Settings {
	return m.settings
}

// SaveErr is the error from the most recent save, if it failed.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Result is the calculation for the current snapshot and settings.
func (m Model) Result() jump.Result {
	return jump.Compute(m.snapshot.BPM, m.snapshot.NoteSpeed, m.settings.Params())
}

// DisplayedReactionTime is the value shown on the reaction time slider:
// the snapped effective time while snapping is on, the raw setting otherwise.
func (m Model) DisplayedReactionTime() int {
	if !m.settings.SnapToNearest {
		return m.settings.ReactionTime
	}
	rt := jump.EffectiveReactionTime(m.snapshot.BPM, m.snapshot.NoteSpeed, m.settings.ReactionTime, m.settings.Snap())
	return jump.RoundToInt(rt)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForSnapshot(),
		m.tickRefresh(),
	)
}

// waitForSnapshot blocks until the source has seen a difficulty.
func (m Model) waitForSnapshot() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		s, err := source.Wait(ctx)
		if err != nil {
			return waitErrMsg{Err: err}
		}
		return snapshotMsg{Snapshot: s}
	}
}

// tickRefresh schedules the next pull of the current snapshot.
func (m Model) tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// saveCmd persists a copy of the current settings.
func (m Model) saveCmd() tea.Cmd {
	if m.save == nil {
		return nil
	}
	s, save := m.settings, m.save
	return func() tea.Msg {
		return savedMsg{Err: save(s)}
	}
}
