package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oyilmaz/popt/internal/common"
)

func TestViewMainContainsAnalysis(t *testing.T) {
	m := NewModel("test prompt", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	out := m.View()
	if !strings.Contains(out, "Analysis Results") {
		t.Error("main view missing analysis panel title")
	}
	if !strings.Contains(out, "Explicitness") {
		t.Error("main view missing category header")
	}
	if !strings.Contains(out, "PROMPT OPTIMIZER") {
		t.Error("main view missing application header")
	}
}

func TestViewNoIssues(t *testing.T) {
	m := NewModel("test prompt", "", "1.0.0", false)
	m.SetIssues(nil)

	if !strings.Contains(m.View(), "No issues detected") {
		t.Error("empty analysis should show the all-clear line")
	}
}

// Below 60x15 every view renders the single-line minimal layout.
func TestMinimalLayoutThreshold(t *testing.T) {
	for _, view := range []View{ViewMain, ViewDiff, ViewHelp} {
		m := NewModel("p", "", "1.0.0", false)
		m.SetIssues(twoCategoryIssues())
		m.view = view
		m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

		out := m.View()
		if strings.Contains(out, "Analysis Results") || strings.Contains(out, "Keyboard Shortcuts") {
			t.Errorf("view %v did not fall back to minimal layout", view)
		}
		if !strings.Contains(out, "issues found") {
			t.Errorf("view %v minimal layout missing summary line: %q", view, out)
		}
	}
}

func TestMinimalLayoutBoundary(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	// Exactly at the threshold the full layout still renders.
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 15})
	if !strings.Contains(m.View(), "Analysis Results") {
		t.Error("60x15 should use the full layout")
	}

	// One short on either axis drops to minimal.
	m.Update(tea.WindowSizeMsg{Width: 59, Height: 15})
	if strings.Contains(m.View(), "Analysis Results") {
		t.Error("59x15 should use the minimal layout")
	}
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 14})
	if strings.Contains(m.View(), "Analysis Results") {
		t.Error("60x14 should use the minimal layout")
	}
}

func TestViewDiffColumns(t *testing.T) {
	m := NewModel("Hello world\nThis is a test", "", "1.0.0", false)
	m.SetOptimizationResult("Hello world\nThis is an improved test",
		&common.OptimizationStats{OriginalTokens: 6, OptimizedTokens: 8})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	if !strings.Contains(out, "Original") || !strings.Contains(out, "Optimized") {
		t.Error("diff view missing column titles")
	}
}

func TestViewHelpListsKeys(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.view = ViewHelp

	out := m.View()
	for _, want := range []string{"NAVIGATION", "VIEWS", "ACTIONS", "GENERAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q section", want)
		}
	}
}

// The error modal renders on top of whatever view is active.
func TestViewErrorModalOverlay(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())
	m.SetError(ErrorState{Message: "provider unreachable", Details: "dial tcp: timeout"})

	out := m.View()
	if !strings.Contains(out, "provider unreachable") {
		t.Error("error modal missing message")
	}
	if !strings.Contains(out, "dial tcp: timeout") {
		t.Error("error modal missing details")
	}
	if !strings.Contains(out, "Press Enter to continue") {
		t.Error("error modal missing dismiss hint")
	}
}

// A modal replaces the whole frame, so rendering it must not run the view
// underneath. The diff view mutates its viewports when rendered, which makes
// the side effect observable.
func TestViewModalSkipsBaseView(t *testing.T) {
	m := NewModel("a\nb\nc\nd\ne", "", "1.0.0", false)
	m.SetOptimizationResult("a\nB\nc", &common.OptimizationStats{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.scrollOffset = 3
	m.SetError(ErrorState{Message: "boom"})

	out := m.View()
	if !strings.Contains(out, "boom") {
		t.Fatal("error modal not rendered")
	}
	if m.diffLeft.YOffset != 0 {
		t.Error("modal render touched the diff viewports")
	}
}

func TestViewErrorModalOutranksSuggestModal(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})
	m.SetError(ErrorState{Message: "boom"})

	out := m.View()
	if !strings.Contains(out, "boom") {
		t.Error("error modal not rendered")
	}
	if strings.Contains(out, "Vague Prompt Detected") {
		t.Error("suggestion modal rendered under an active error modal")
	}
}

func TestViewSuggestModal(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})

	out := m.View()
	if !strings.Contains(out, "Vague Prompt Detected (EXP005)") {
		t.Error("suggestion modal missing title")
	}
	if !strings.Contains(out, "[ ]") {
		t.Error("suggestion modal missing checkboxes")
	}
}

func TestViewStatusBarToggleLabel(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	// Header of an expanded category: offer collapse.
	if out := m.View(); !strings.Contains(out, "collapse") {
		t.Error("status bar should offer collapse on an expanded header")
	}

	m.tree.ToggleCurrent()
	if out := m.View(); !strings.Contains(out, "expand") {
		t.Error("status bar should offer expand on a collapsed header")
	}
}

func TestViewStatusMessageShown(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())
	m.SetStatusMessage("✓ Copied to clipboard", 0)

	if !strings.Contains(m.View(), "✓ Copied to clipboard") {
		t.Error("status message not rendered")
	}
}

func TestViewQuitting(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.quitting = true
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestViewProgressPhases(t *testing.T) {
	m := NewModel("p", "file.txt", "1.0.0", false)

	out := m.View()
	if !strings.Contains(out, "Ready") {
		t.Error("ready phase not shown before analysis")
	}

	m.SetIssues(twoCategoryIssues())
	m.SetOptimizing()
	out = m.View()
	if !strings.Contains(out, "Optimizing") {
		t.Error("optimizing phase not shown in progress panel")
	}
	if m.Phase() != PhaseOptimizing {
		t.Errorf("phase = %v, want optimizing", m.Phase())
	}
}
