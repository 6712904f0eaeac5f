package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/oyilmaz/popt/internal/common"
	"github.com/oyilmaz/popt/internal/suggest"
)

// View identifies which screen is rendered.
type View int

const (
	ViewMain View = iota
	ViewDiff
	ViewHelp
)

// Phase tracks where the session is in the analyze/optimize workflow.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseAnalyzing
	PhaseAnalysisDone
	PhaseOptimizing
	PhaseDone
	PhaseError
)

// RenderMode selects how results are presented, from CLI flags and TTY state.
type RenderMode int

const (
	// ModeInteractive runs the full-screen UI.
	ModeInteractive RenderMode = iota
	// ModeLinear prints enhanced output to a TTY.
	ModeLinear
	// ModePlain prints unstyled output for pipes.
	ModePlain
	// ModeJSON emits the JSON formatter output.
	ModeJSON
	// ModeQuiet suppresses everything but the optimized prompt.
	ModeQuiet
)

// DetectRenderMode picks a render mode from the CLI flags and whether stdout
// is a terminal.
func DetectRenderMode(interactive, quiet, formatJSON, isTTY bool) RenderMode {
	switch {
	case formatJSON:
		return ModeJSON
	case quiet:
		return ModeQuiet
	case !isTTY:
		return ModePlain
	case interactive:
		return ModeInteractive
	default:
		return ModeLinear
	}
}

// ErrorState carries a user-facing error for the modal.
type ErrorState struct {
	Message string
	Details string
}

// Model is the full state of the interactive session.
type Model struct {
	view  View
	phase Phase

	offline         bool
	originalPrompt  string
	optimizedPrompt string
	inputFile       string
	version         string

	tree     *ResultTree
	stats    *common.OptimizationStats
	errState *ErrorState
	suggestM SuggestModalState

	statusMessage string
	statusClearAt time.Time

	scrollOffset int
	diffLeft     viewport.Model
	diffRight    viewport.Model

	width        int
	height       int
	spinnerFrame int
	quitting     bool

	saveDir string
}

// NewModel builds a model for the given prompt. inputFile may be empty when
// the prompt came from stdin.
func NewModel(prompt, inputFile, version string, offline bool) *Model {
	return &Model{
		originalPrompt: prompt,
		inputFile:      inputFile,
		version:        version,
		offline:        offline,
		tree:           &ResultTree{},
		width:          80,
		height:         24,
		saveDir:        defaultSaveDir,
	}
}

// SetSaveDir overrides where the `s` key writes optimized prompts.
func (m *Model) SetSaveDir(dir string) {
	if dir != "" {
		m.saveDir = dir
	}
}

// SetIssues installs analysis results and, when the issue set contains a
// vagueness trigger, activates the suggestion modal.
func (m *Model) SetIssues(issues []common.Issue) {
	m.tree = NewResultTree(issues)
	m.phase = PhaseAnalysisDone
	if suggest.ShouldSuggest(issues) {
		m.suggestM = NewSuggestModalState(issues)
	}
}

// SetOptimizing marks the LLM call as in flight.
func (m *Model) SetOptimizing() {
	m.phase = PhaseOptimizing
}

// SetOptimizationResult installs the rewritten prompt and its stats in one
// step and switches to the diff view so the changes are visible immediately.
func (m *Model) SetOptimizationResult(optimized string, stats *common.OptimizationStats) {
	m.optimizedPrompt = optimized
	m.stats = stats
	m.phase = PhaseDone
	m.view = ViewDiff
	m.scrollOffset = 0
}

// ShowMainView returns to the analysis view, e.g. when the config disables
// opening the diff by default.
func (m *Model) ShowMainView() {
	m.view = ViewMain
}

// SetError raises the error modal.
func (m *Model) SetError(err ErrorState) {
	m.errState = &err
	m.phase = PhaseError
}

// ClearError dismisses the error modal and restores the phase implied by
// whatever results are already present.
func (m *Model) ClearError() {
	m.errState = nil
	switch {
	case m.optimizedPrompt != "":
		m.phase = PhaseDone
	case len(m.tree.Categories) > 0:
		m.phase = PhaseAnalysisDone
	default:
		m.phase = PhaseReady
	}
}

// HasResults reports whether an optimized prompt is available.
func (m *Model) HasResults() bool {
	return m.optimizedPrompt != ""
}

// OriginalPrompt returns the working prompt, including any suggestion
// templates the user applied.
func (m *Model) OriginalPrompt() string {
	return m.originalPrompt
}

// OptimizedPrompt returns the rewritten prompt, or "" before optimization.
func (m *Model) OptimizedPrompt() string {
	return m.optimizedPrompt
}

// Phase returns the current workflow phase.
func (m *Model) Phase() Phase {
	return m.phase
}

// CurrentView returns the active screen.
func (m *Model) CurrentView() View {
	return m.view
}

// Tree returns the result tree.
func (m *Model) Tree() *ResultTree {
	return m.tree
}

// SetStatusMessage shows a transient message in the status bar.
func (m *Model) SetStatusMessage(msg string, ttl time.Duration) {
	m.statusMessage = msg
	m.statusClearAt = time.Now().Add(ttl)
}

// ClearStatusMessage removes the status message immediately.
func (m *Model) ClearStatusMessage() {
	m.statusMessage = ""
	m.statusClearAt = time.Time{}
}

// CheckStatusExpiry clears the status message once its deadline passes and
// reports whether it did so.
func (m *Model) CheckStatusExpiry() bool {
	if m.statusMessage != "" && !m.statusClearAt.IsZero() && !time.Now().Before(m.statusClearAt) {
		m.ClearStatusMessage()
		return true
	}
	return false
}

// selectedCategoryExpanded returns the expansion state of the category that
// owns the selected row, or false, false on an empty tree.
func (m *Model) selectedCategoryExpanded() (expanded, ok bool) {
	cat := m.tree.owningCategoryAt(m.tree.FlatIndex())
	if cat == nil {
		return false, false
	}
	return cat.Expanded, true
}
