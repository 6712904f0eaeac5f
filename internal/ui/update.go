package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultSaveDir is where the `s` key writes optimized prompts unless the
// config overrides it.
const defaultSaveDir = "popt-output"

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update routes events in strict precedence order: error modal, suggestion
// modal, global quit keys, then the active view's key map.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewports()
		return m, nil
	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
		m.CheckStatusExpiry()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case editorFinishedMsg:
		m.finishEdit(msg)
		return m, nil
	}
	return m, nil
}

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Error modal swallows everything; Enter/Esc dismiss it.
	if m.errState != nil {
		switch msg.String() {
		case "enter", "esc":
			m.ClearError()
		}
		return m, nil
	}

	// Suggestion modal is next in line and also consumes every key.
	if m.suggestM.Visible {
		_, shouldApply, _ := m.suggestM.HandleKey(msg)
		if shouldApply && m.suggestM.HasSelections() {
			m.originalPrompt = m.suggestM.ApplyToPrompt(m.originalPrompt)
		}
		return m, nil
	}

	// Global quit keys work in every view.
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	switch m.view {
	case ViewDiff:
		return m.handleDiffKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleMainKeys(msg)
	}
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.tree.SelectPrev()
	case "down", "j":
		m.tree.SelectNext()
	case "enter":
		m.tree.ToggleCurrent()
	case "d":
		if m.HasResults() {
			m.view = ViewDiff
		}
	case "?":
		m.view = ViewHelp
	case "c":
		if m.HasResults() {
			m.copyOptimized()
		}
	case "s":
		if m.HasResults() {
			m.saveOptimized()
		}
	case "e":
		if m.HasResults() {
			return m, m.editOptimized()
		}
	case "pgup":
		m.tree.SelectBy(-10)
	case "pgdown":
		m.tree.SelectBy(10)
	case "home":
		m.tree.SelectFirst()
	}
	return m, nil
}

func (m *Model) handleDiffKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d":
		m.view = ViewMain
	case "c":
		m.copyOptimized()
	case "s":
		m.saveOptimized()
	case "e":
		return m, m.editOptimized()
	case "up":
		m.scrollOffset = max(0, m.scrollOffset-1)
	case "down":
		m.scrollOffset++
	case "pgup":
		m.scrollOffset = max(0, m.scrollOffset-10)
	case "pgdown":
		m.scrollOffset += 10
	case "home":
		m.scrollOffset = 0
	}
	return m, nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "enter":
		m.view = ViewMain
	}
	return m, nil
}

// copyOptimized puts the rewritten prompt on the system clipboard and shows
// transient feedback.
func (m *Model) copyOptimized() {
	if m.optimizedPrompt == "" {
		return
	}
	if err := clipboard.WriteAll(m.optimizedPrompt); err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Copy failed: %v", err), 5*time.Second)
		return
	}
	m.SetStatusMessage("✓ Copied to clipboard", 3*time.Second)
}

// saveOptimized writes the rewritten prompt to a timestamped file under the
// output directory.
func (m *Model) saveOptimized() {
	if m.optimizedPrompt == "" {
		return
	}
	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Failed to create directory: %v", err), 5*time.Second)
		return
	}
	name := fmt.Sprintf("optimized_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.saveDir, name)
	if err := os.WriteFile(path, []byte(m.optimizedPrompt), 0o600); err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Save failed: %v", err), 5*time.Second)
		return
	}
	m.SetStatusMessage(fmt.Sprintf("✓ Saved to %s", path), 5*time.Second)
}

type editorFinishedMsg struct {
	path string
	err  error
}

// editOptimized suspends the session and opens the rewritten prompt in
// $EDITOR. The edited text replaces the optimized prompt when the editor
// exits cleanly.
func (m *Model) editOptimized() tea.Cmd {
	if m.optimizedPrompt == "" {
		return nil
	}
	tmp, err := os.CreateTemp("", "popt-edit-*.txt")
	if err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Edit failed: %v", err), 5*time.Second)
		return nil
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(m.optimizedPrompt); err != nil {
		tmp.Close()
		m.SetStatusMessage(fmt.Sprintf("✗ Edit failed: %v", err), 5*time.Second)
		return nil
	}
	tmp.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, path) // #nosec G204 - user's own $EDITOR
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

// finishEdit reads the edited text back and cleans up the temp file.
func (m *Model) finishEdit(msg editorFinishedMsg) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Editor failed: %v", msg.err), 5*time.Second)
		return
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		m.SetStatusMessage(fmt.Sprintf("✗ Edit failed: %v", err), 5*time.Second)
		return
	}
	m.optimizedPrompt = string(data)
	m.resizeViewports()
	m.SetStatusMessage("✓ Applied edited prompt", 3*time.Second)
}
