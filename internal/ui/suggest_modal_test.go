package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oyilmaz/popt/internal/common"
)

func TestSuggestModalFromTriggerIssues(t *testing.T) {
	tests := []struct {
		name    string
		ruleIDs []string
		visible bool
	}{
		{"role-only", []string{"EXP005"}, true},
		{"open-ended", []string{"EXP006"}, true},
		{"both", []string{"EXP005", "EXP006"}, true},
		{"unrelated", []string{"EXP001", "STY001"}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var issues []common.Issue
			for _, id := range tt.ruleIDs {
				issues = append(issues, makeIssue(id, common.SeverityWarning, "x"))
			}
			state := NewSuggestModalState(issues)
			if state.Visible != tt.visible {
				t.Errorf("visible = %v, want %v", state.Visible, tt.visible)
			}
			if tt.visible && len(state.Suggestions) == 0 {
				t.Error("visible modal carries no suggestions")
			}
			if len(state.Selections) != len(state.Suggestions) {
				t.Errorf("selections len %d != suggestions len %d",
					len(state.Selections), len(state.Suggestions))
			}
		})
	}
}

func TestSuggestModalBothTriggersMergeSuggestions(t *testing.T) {
	both := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
		makeIssue("EXP006", common.SeverityWarning, "y"),
	})
	roleOnly := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
	})
	if len(both.Suggestions) <= len(roleOnly.Suggestions) {
		t.Errorf("both triggers yield %d suggestions, role-only %d",
			len(both.Suggestions), len(roleOnly.Suggestions))
	}
}

func TestSuggestModalCursorSaturates(t *testing.T) {
	state := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
	})

	state.CursorUp()
	if state.Cursor != 0 {
		t.Errorf("cursor = %d after up at top", state.Cursor)
	}
	for range 50 {
		state.CursorDown()
	}
	if want := len(state.Suggestions) - 1; state.Cursor != want {
		t.Errorf("cursor = %d, want %d", state.Cursor, want)
	}
}

func TestSuggestModalSelectionOps(t *testing.T) {
	state := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
	})

	if state.HasSelections() {
		t.Fatal("fresh modal has selections")
	}
	state.ToggleCurrent()
	if !state.Selections[0] || state.SelectedCount() != 1 {
		t.Error("toggle did not select the cursor row")
	}
	state.ToggleCurrent()
	if state.HasSelections() {
		t.Error("second toggle did not deselect")
	}

	state.SelectAll()
	if state.SelectedCount() != len(state.Suggestions) {
		t.Error("SelectAll missed entries")
	}
	state.DeselectAll()
	if state.HasSelections() {
		t.Error("DeselectAll left selections")
	}
}

// The applied prompt is always a superset: it starts with the trimmed
// original and contains every selected template.
func TestApplyToPromptIsSuperset(t *testing.T) {
	state := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
		makeIssue("EXP006", common.SeverityWarning, "y"),
	})
	state.Selections[0] = true
	state.Selections[len(state.Selections)-1] = true

	original := "You are a helpful assistant.  \n"
	got := state.ApplyToPrompt(original)

	if !strings.HasPrefix(got, strings.TrimSpace(original)) {
		t.Errorf("applied prompt does not start with the original: %q", got[:40])
	}
	for i, sel := range state.Selections {
		if sel && !strings.Contains(got, state.Suggestions[i].Template) {
			t.Errorf("selected template %q missing", state.Suggestions[i].ID)
		}
	}
}

func TestApplyToPromptNoSelections(t *testing.T) {
	state := NewSuggestModalState([]common.Issue{
		makeIssue("EXP005", common.SeverityWarning, "x"),
	})
	original := "You are a helpful assistant."
	if got := state.ApplyToPrompt(original); got != original {
		t.Errorf("prompt changed with nothing selected: %q", got)
	}
}

func TestSuggestModalHandleKeyWhenHidden(t *testing.T) {
	state := NewSuggestModalState(nil)
	handled, apply, dismissed := state.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if handled || apply || dismissed {
		t.Error("hidden modal consumed a key")
	}
}
