package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/suggest"
)

// SuggestModalState holds the checkbox list shown when analysis flags a
// vague prompt (EXP005/EXP006).
type SuggestModalState struct {
	Suggestions   []suggest.Suggestion
	Selections    []bool
	Cursor        int
	Visible       bool
	TriggerIssues []string
}

// NewSuggestModalState builds modal state from the detected issues. The
// modal is visible only when at least one trigger issue is present.
func NewSuggestModalState(issues []common.Issue) SuggestModalState {
	triggers := suggest.TriggerIssues(issues)
	ids := make([]string, 0, len(triggers))
	for i := range triggers {
		ids = append(ids, triggers[i].RuleID)
	}

	suggestions := suggest.ForIssues(issues)
	return SuggestModalState{
		Suggestions:   suggestions,
		Selections:    make([]bool, len(suggestions)),
		Visible:       len(ids) > 0,
		TriggerIssues: ids,
	}
}

// CursorUp moves the cursor up one entry, saturating at the top.
func (s *SuggestModalState) CursorUp() {
	if s.Cursor > 0 {
		s.Cursor--
	}
}

// CursorDown moves the cursor down one entry, saturating at the bottom.
func (s *SuggestModalState) CursorDown() {
	if s.Cursor < len(s.Suggestions)-1 {
		s.Cursor++
	}
}

// ToggleCurrent flips the checkbox under the cursor.
func (s *SuggestModalState) ToggleCurrent() {
	if s.Cursor < len(s.Selections) {
		s.Selections[s.Cursor] = !s.Selections[s.Cursor]
	}
}

// SelectAll checks every suggestion.
func (s *SuggestModalState) SelectAll() {
	for i := range s.Selections {
		s.Selections[i] = true
	}
}

// DeselectAll unchecks every suggestion.
func (s *SuggestModalState) DeselectAll() {
	for i := range s.Selections {
		s.Selections[i] = false
	}
}

// HasSelections reports whether any checkbox is set.
func (s *SuggestModalState) HasSelections() bool {
	for _, sel := range s.Selections {
		if sel {
			return true
		}
	}
	return false
}

// SelectedCount returns the number of checked suggestions.
func (s *SuggestModalState) SelectedCount() int {
	n := 0
	for _, sel := range s.Selections {
		if sel {
			n++
		}
	}
	return n
}

// selectedIndexes returns the positions of the checked suggestions.
func (s *SuggestModalState) selectedIndexes() []int {
	var out []int
	for i, sel := range s.Selections {
		if sel {
			out = append(out, i)
		}
	}
	return out
}

// ApplyToPrompt appends the checked suggestion templates to the prompt.
// With nothing checked the prompt is returned unchanged.
func (s *SuggestModalState) ApplyToPrompt(original string) string {
	selected := s.selectedIndexes()
	if len(selected) == 0 {
		return original
	}
	return suggest.Apply(original, s.Suggestions, selected)
}

// Dismiss hides the modal.
func (s *SuggestModalState) Dismiss() {
	s.Visible = false
}

// HandleKey routes a key press while the modal is visible. It reports
// whether the key was consumed, whether the selections should be applied,
// and whether the modal closed.
func (s *SuggestModalState) HandleKey(msg tea.KeyMsg) (handled, shouldApply, dismissed bool) {
	if !s.Visible {
		return false, false, false
	}

	switch msg.String() {
	case "up", "k":
		s.CursorUp()
		return true, false, false
	case "down", "j":
		s.CursorDown()
		return true, false, false
	case " ":
		s.ToggleCurrent()
		return true, false, false
	case "enter":
		s.Dismiss()
		return true, true, true
	case "esc":
		s.Dismiss()
		return true, false, true
	case "a":
		s.SelectAll()
		return true, false, false
	case "n":
		s.DeselectAll()
		return true, false, false
	}
	// Swallow everything else so global keys cannot fire through the modal.
	return true, false, false
}
