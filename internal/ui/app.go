package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the interactive session to completion and returns the final
// model state so the caller can read back the prompt text, including any
// suggestion templates the user applied.
//
// Safety measures are layered: the signal handler and the deferred panic
// hook both funnel into the idempotent RestoreTerminal, so the terminal
// comes back sane on every exit path.
func Run(m *Model) (*Model, error) {
	InstallSignalHandlers()
	defer InstallPanicHook()()

	guard := NewTerminalGuard()
	defer guard.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()

	// The program leaves the alternate screen itself on a clean exit.
	rawActive.Store(false)
	if err != nil {
		return m, fmt.Errorf("run interactive session: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm, nil
	}
	return m, nil
}
