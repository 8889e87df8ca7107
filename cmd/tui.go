package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/olivier-w/scope/internal/config"
	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/scope"
	"github.com/olivier-w/scope/internal/ui"
)

var ErrNotTerminal = errors.New("stdout is not a terminal")

// teaRunner runs the bubbletea programs on the process terminal.
type teaRunner struct{}

func (teaRunner) Scope(cfg *config.Config, s Session) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	restore, err := redirectLogs(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	model := ui.New(ui.Options{
		Engine:   scope.NewEngine(cfg.GraphConfig()),
		Source:   s.Source,
		FPS:      cfg.UI.FPS,
		Title:    s.Title,
		Playback: s.Playback,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok {
		return m.Err()
	}
	return nil
}

func (teaRunner) Browse(dir string) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", ErrNotTerminal
	}
	browser := ui.NewBrowser(dir)
	if err := browser.Error(); err != nil {
		return "", err
	}
	final, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	bm, ok := final.(ui.BrowserModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type from browser: %T", final)
	}
	result := bm.Result()
	if result.Cancelled {
		return "", nil
	}
	return result.Path, nil
}

// redirectLogs keeps log output off the screen while the UI owns it: to path
// when set, discarded otherwise.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := tea.LogToFileWith(path, "scope", log.Std())
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() {
		log.SetOutput(os.Stderr)
		log.Std().SetPrefix("")
		f.Close()
	}, nil
}
