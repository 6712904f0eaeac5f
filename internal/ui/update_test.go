package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oyilmaz/popt/internal/common"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestQuitKeysFromEveryView(t *testing.T) {
	for _, view := range []View{ViewMain, ViewDiff, ViewHelp} {
		for _, msg := range []tea.KeyMsg{keyRune('q'), key(tea.KeyCtrlC)} {
			m := NewModel("p", "", "1.0.0", false)
			m.view = view
			_, cmd := m.Update(msg)
			if !m.quitting {
				t.Errorf("view %v, key %q: quit flag not set", view, msg.String())
			}
			if cmd == nil {
				t.Errorf("view %v, key %q: expected tea.Quit command", view, msg.String())
			}
		}
	}
}

func TestErrorModalInterceptsAllKeys(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetError(ErrorState{Message: "provider unreachable"})

	// Global quit must not fire through the modal.
	m.Update(keyRune('q'))
	if m.quitting {
		t.Fatal("q quit the app while the error modal was up")
	}

	// Navigation keys are swallowed too.
	m.Update(key(tea.KeyDown))
	if m.tree.FlatIndex() != 0 {
		t.Error("tree navigation leaked through the error modal")
	}

	// Enter dismisses.
	m.Update(key(tea.KeyEnter))
	if m.errState != nil {
		t.Error("Enter did not dismiss the error modal")
	}
}

func TestErrorModalEscDismisses(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetError(ErrorState{Message: "boom"})
	m.Update(key(tea.KeyEsc))
	if m.errState != nil {
		t.Error("Esc did not dismiss the error modal")
	}
}

// Error modal outranks the suggestion modal when both are active.
func TestErrorModalOutranksSuggestModal(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})
	m.SetError(ErrorState{Message: "boom"})

	before := m.suggestM.Cursor
	m.Update(key(tea.KeyDown))
	if m.suggestM.Cursor != before {
		t.Error("suggest modal received a key while the error modal was up")
	}
}

func TestSuggestModalInterceptsQuit(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})

	m.Update(keyRune('q'))
	if m.quitting {
		t.Fatal("q quit the app while the suggestion modal was up")
	}
	if !m.suggestM.Visible {
		t.Error("suggestion modal dismissed by an unmapped key")
	}
}

func TestSuggestModalApplyAppendsTemplates(t *testing.T) {
	prompt := "You are a helpful assistant."
	m := NewModel(prompt, "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})

	m.Update(key(tea.KeySpace)) // select first suggestion
	m.Update(key(tea.KeyEnter)) // apply and dismiss

	if m.suggestM.Visible {
		t.Fatal("modal still visible after Enter")
	}
	got := m.OriginalPrompt()
	if !strings.HasPrefix(got, prompt) {
		t.Errorf("applied prompt no longer starts with the original: %q", got)
	}
	if len(got) <= len(prompt) {
		t.Error("no template appended on apply")
	}
	if !strings.Contains(got, m.suggestM.Suggestions[0].Template) {
		t.Error("selected template missing from applied prompt")
	}
}

func TestSuggestModalEscLeavesPromptAlone(t *testing.T) {
	prompt := "You are a helpful assistant."
	m := NewModel(prompt, "", "1.0.0", false)
	m.SetIssues([]common.Issue{makeIssue("EXP005", common.SeverityWarning, "vague")})

	m.Update(key(tea.KeySpace))
	m.Update(key(tea.KeyEsc))

	if m.suggestM.Visible {
		t.Error("Esc did not dismiss the modal")
	}
	if m.OriginalPrompt() != prompt {
		t.Error("Esc modified the prompt")
	}
}

func TestMainViewNavigation(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	m.Update(key(tea.KeyDown))
	if m.tree.FlatIndex() != 1 {
		t.Errorf("flat index = %d after down, want 1", m.tree.FlatIndex())
	}
	m.Update(keyRune('j'))
	if m.tree.FlatIndex() != 2 {
		t.Errorf("flat index = %d after j, want 2", m.tree.FlatIndex())
	}
	m.Update(keyRune('k'))
	m.Update(key(tea.KeyUp))
	if m.tree.FlatIndex() != 0 {
		t.Errorf("flat index = %d after k/up, want 0", m.tree.FlatIndex())
	}

	// Enter collapses the selected header.
	m.Update(key(tea.KeyEnter))
	if m.tree.Categories[0].Expanded {
		t.Error("Enter did not collapse the selected category")
	}
}

func TestDiffViewRequiresResults(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	m.Update(keyRune('d'))
	if m.CurrentView() != ViewMain {
		t.Error("d switched view without results")
	}

	m.SetOptimizationResult("opt", &common.OptimizationStats{})
	m.view = ViewMain
	m.Update(keyRune('d'))
	if m.CurrentView() != ViewDiff {
		t.Error("d did not switch to diff view with results")
	}

	// d toggles back.
	m.Update(keyRune('d'))
	if m.CurrentView() != ViewMain {
		t.Error("d did not return to main view")
	}
}

func TestHelpViewRoundTrip(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)

	m.Update(keyRune('?'))
	if m.CurrentView() != ViewHelp {
		t.Fatal("? did not open help")
	}
	m.Update(keyRune('?'))
	if m.CurrentView() != ViewMain {
		t.Error("? did not close help")
	}

	m.Update(keyRune('?'))
	m.Update(key(tea.KeyEsc))
	if m.CurrentView() != ViewMain {
		t.Error("Esc did not close help")
	}

	m.Update(keyRune('?'))
	m.Update(key(tea.KeyEnter))
	if m.CurrentView() != ViewMain {
		t.Error("Enter did not close help")
	}
}

func TestResizeUpdatesDimensions(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d after resize, want 120x40", m.width, m.height)
	}
}

func TestTickClearsExpiredStatus(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetStatusMessage("✓ Saved", time.Millisecond)
	m.statusClearAt = time.Now().Add(-time.Second)

	_, cmd := m.Update(tickMsg(time.Now()))
	if m.statusMessage != "" {
		t.Error("tick did not clear the expired status message")
	}
	if cmd == nil {
		t.Error("tick did not reschedule itself")
	}
}

func TestDiffViewScrolling(t *testing.T) {
	m := NewModel("a\nb\nc", "", "1.0.0", false)
	m.SetOptimizationResult("a\nB\nc", &common.OptimizationStats{})

	m.Update(key(tea.KeyDown))
	if m.scrollOffset != 1 {
		t.Errorf("scroll offset = %d after down, want 1", m.scrollOffset)
	}
	m.Update(key(tea.KeyPgDown))
	if m.scrollOffset != 11 {
		t.Errorf("scroll offset = %d after pgdown, want 11", m.scrollOffset)
	}
	m.Update(key(tea.KeyPgUp))
	m.Update(key(tea.KeyPgUp))
	if m.scrollOffset != 0 {
		t.Errorf("scroll offset = %d, want 0 (saturating)", m.scrollOffset)
	}

	m.Update(key(tea.KeyEsc))
	if m.CurrentView() != ViewMain {
		t.Error("Esc did not leave the diff view")
	}
}

func TestMainViewPageKeysMoveSelection(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 16})

	before := m.View()
	m.Update(key(tea.KeyPgDown))
	if want := m.tree.FlatLen() - 1; m.tree.FlatIndex() != want {
		t.Errorf("flat index = %d after pgdown, want %d (saturating)", m.tree.FlatIndex(), want)
	}
	if m.View() == before {
		t.Error("pgdown left the rendered main view unchanged")
	}

	m.Update(key(tea.KeyPgUp))
	if m.tree.FlatIndex() != 0 {
		t.Errorf("flat index = %d after pgup, want 0 (saturating)", m.tree.FlatIndex())
	}

	m.Update(key(tea.KeyPgDown))
	m.Update(key(tea.KeyHome))
	if m.tree.FlatIndex() != 0 {
		t.Errorf("flat index = %d after home, want 0", m.tree.FlatIndex())
	}
}

func TestDiffViewHomeResetsScroll(t *testing.T) {
	m := NewModel("a\nb\nc", "", "1.0.0", false)
	m.SetOptimizationResult("a\nB\nc", &common.OptimizationStats{})

	m.Update(key(tea.KeyPgDown))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyHome))
	if m.scrollOffset != 0 {
		t.Errorf("scroll offset = %d after home, want 0", m.scrollOffset)
	}
}

func TestEditKeyRequiresResults(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())

	_, cmd := m.Update(keyRune('e'))
	if cmd != nil {
		t.Error("e should be a no-op without optimization results")
	}
}

func TestFinishEditAppliesEditedText(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetIssues(twoCategoryIssues())
	m.SetOptimizationResult("old text", nil)

	path := filepath.Join(t.TempDir(), "edited.txt")
	if err := os.WriteFile(path, []byte("edited text"), 0o600); err != nil {
		t.Fatalf("write edited file: %v", err)
	}

	m.Update(editorFinishedMsg{path: path})
	if m.OptimizedPrompt() != "edited text" {
		t.Errorf("optimized prompt = %q after edit", m.OptimizedPrompt())
	}
	if m.statusMessage == "" {
		t.Error("expected a status message after applying an edit")
	}
}

func TestFinishEditKeepsTextOnEditorError(t *testing.T) {
	m := NewModel("p", "", "1.0.0", false)
	m.SetOptimizationResult("old text", nil)

	m.Update(editorFinishedMsg{path: filepath.Join(t.TempDir(), "gone.txt"), err: fmt.Errorf("exit status 1")})
	if m.OptimizedPrompt() != "old text" {
		t.Errorf("optimized prompt changed after editor failure: %q", m.OptimizedPrompt())
	}
}
