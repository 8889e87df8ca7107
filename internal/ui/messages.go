package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/scope/internal/input"
	"github.com/olivier-w/scope/internal/scope"
)

type tickMsg time.Time

// frameMsg carries one Recv result back to Update.
type frameMsg struct {
	matrix scope.Matrix
	err    error
}

type statusMsg struct{}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// recvCmd reads the next frame off the update loop, since file sources may
// block for pacing.
func recvCmd(src input.Source) tea.Cmd {
	return func() tea.Msg {
		m, err := src.Recv()
		return frameMsg{matrix: m, err: err}
	}
}

func statusCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return statusMsg{}
	})
}
