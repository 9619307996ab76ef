package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/justthedistance/jtd/internal/beatmap"
	"github.com/justthedistance/jtd/internal/settings"
)

// Run starts the settings menu, editing the store's settings and previewing
// values for the snapshots source provides. Changes are saved to the store.
func Run(ctx context.Context, store *settings.Store, source beatmap.Source) error {
	save := func(s settings.Settings) error {
		store.Data = s
		return store.Save()
	}
	model := NewModel(ctx, store.Settings(), source, save)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	// Run TUI blocking in this goroutine.
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.SaveErr() != nil {
		return fmt.Errorf("saving settings to %s: %w", store.Path, fm.SaveErr())
	}
	return nil
}
