package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/oyilmaz/popt/internal/ai"
	"github.com/oyilmaz/popt/internal/common"
)

// Terminals smaller than this fall back to the single-line minimal layout.
const (
	minWidth  = 60
	minHeight = 15
)

// View renders the screen for the current model state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return m.renderMinimal()
	}

	// Modals replace the whole screen, so there is no point rendering the
	// view underneath. Error modal wins over the suggestion modal.
	if m.errState != nil {
		return m.renderErrorModal()
	}
	if m.suggestM.Visible {
		return m.renderSuggestModal()
	}

	switch m.view {
	case ViewDiff:
		return m.renderDiffView()
	case ViewHelp:
		return m.renderHelpView()
	default:
		return m.renderMainView()
	}
}

func (m *Model) renderMainView() string {
	header := m.renderHeader()
	status := m.renderStatusBar()

	contentHeight := m.height - lipgloss.Height(header) - 1
	treeHeight := contentHeight * 6 / 10
	statsHeight := contentHeight - treeHeight

	tree := m.renderTreePanel(treeHeight)
	var lower string
	if m.stats != nil {
		lower = m.renderStatsPanel(statsHeight)
	} else {
		lower = m.renderProgressPanel(statsHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tree, lower, status)
}

func (m *Model) renderHeader() string {
	theme := CurrentTheme()
	icons := Icons()

	title := theme.Title.Render(fmt.Sprintf("%s PROMPT OPTIMIZER", icons.Lightning)) +
		theme.MutedText.Render(" v"+m.version)
	if m.offline {
		title += " " + theme.WarningText.Render("[OFFLINE MODE]")
	}

	subtitle := "Optimize prompts for Claude"
	if m.offline {
		subtitle = "Static analysis only (no LLM calls)"
	}

	source := "stdin"
	if m.inputFile != "" {
		source = m.inputFile
	}
	input := fmt.Sprintf("%s Input: %s (%d chars, %d tokens)",
		icons.Inbox, source, len(m.originalPrompt), ai.EstimateTokens(m.originalPrompt))

	rule := theme.MutedText.Render(strings.Repeat("─", max(0, m.width)))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		theme.MutedText.Render(subtitle),
		theme.Text.Render(input),
		rule,
	)
}

func (m *Model) renderHeaderCompact() string {
	theme := CurrentTheme()
	icons := Icons()

	title := theme.Title.Render(fmt.Sprintf("%s PROMPT OPTIMIZER", icons.Lightning)) +
		theme.MutedText.Render(" v"+m.version)
	if m.offline {
		title += " " + theme.WarningText.Render("[OFFLINE]")
	}
	rule := theme.MutedText.Render(strings.Repeat("─", max(0, m.width)))
	return lipgloss.JoinVertical(lipgloss.Left, title, rule)
}

// renderTreePanel draws the collapsible issue tree inside a bordered box.
func (m *Model) renderTreePanel(height int) string {
	theme := CurrentTheme()
	icons := Icons()

	innerWidth := max(10, m.width-4)
	innerHeight := max(1, height-3)

	var rows []string
	if len(m.tree.Categories) == 0 {
		rows = append(rows, theme.SuccessText.Render(
			fmt.Sprintf("%s No issues detected - your prompt looks good!", icons.Check)))
	} else {
		rows = m.treeRows(innerWidth)
	}

	// Keep the selection visible.
	start := 0
	if sel := m.tree.FlatIndex(); sel >= innerHeight {
		start = sel - innerHeight + 1
	}
	if start > len(rows) {
		start = len(rows)
	}
	end := min(len(rows), start+innerHeight)
	body := strings.Join(rows[start:end], "\n")

	box := theme.Box.Width(m.width - 2).Height(height - 2)
	title := theme.Title.Render(fmt.Sprintf(" %s Analysis Results ", icons.Chart))
	return lipgloss.JoinVertical(lipgloss.Left, title, box.Render(body))
}

// treeRows builds one styled string per flattened tree row.
func (m *Model) treeRows(width int) []string {
	theme := CurrentTheme()
	icons := Icons()

	var rows []string
	idx := 0
	for ci := range m.tree.Categories {
		cat := &m.tree.Categories[ci]

		expandIcon := icons.FolderClosed
		if cat.Expanded {
			expandIcon = icons.FolderOpen
		}
		header := fmt.Sprintf("%s %s (%d issues)", expandIcon, cat.DisplayName, cat.IssueCount())
		if idx == m.tree.FlatIndex() {
			rows = append(rows, theme.SelectedRow.Render(header))
		} else {
			rows = append(rows, theme.Title.Render(header))
		}
		idx++

		if !cat.Expanded {
			continue
		}
		for ii := range cat.Issues {
			iss := &cat.Issues[ii]
			sevIcon, sevStyle := severityGlyph(iss.Severity)

			lineInfo := ""
			if iss.Line > 0 {
				lineInfo = fmt.Sprintf(" (L%d)", iss.Line)
			}
			msg := runewidth.Truncate(iss.Message, max(8, width-20), "...")
			row := fmt.Sprintf("   %s %s %s%s", sevStyle.Render(sevIcon),
				theme.MutedText.Render(iss.RuleID), msg, theme.MutedText.Render(lineInfo))
			if idx == m.tree.FlatIndex() {
				row = theme.SelectedRow.Render(fmt.Sprintf("   %s %s %s%s", sevIcon, iss.RuleID, msg, lineInfo))
			}
			rows = append(rows, row)
			idx++
		}
	}
	return rows
}

func severityGlyph(sev common.Severity) (string, lipgloss.Style) {
	theme := CurrentTheme()
	icons := Icons()
	switch sev {
	case common.SeverityError:
		return icons.Cross, theme.ErrorText
	case common.SeverityWarning:
		return icons.Warning, theme.WarningText
	default:
		return icons.Info, theme.MutedText
	}
}

// renderStatsPanel draws the optimization dashboard once stats exist.
func (m *Model) renderStatsPanel(height int) string {
	theme := CurrentTheme()
	icons := Icons()
	s := m.stats

	barWidth := max(4, m.width-34)
	maxTokens := max(max(s.OriginalTokens, s.OptimizedTokens), 1)
	origBar := tokenBar(s.OriginalTokens, maxTokens, barWidth)
	optBar := tokenBar(s.OptimizedTokens, maxTokens, barWidth)

	change := "N/A"
	changeStyle := theme.SuccessText
	if s.OriginalTokens > 0 {
		pct := (s.OptimizedTokens - s.OriginalTokens) * 100 / s.OriginalTokens
		if pct >= 0 {
			change = fmt.Sprintf("+%d%%", pct)
		} else {
			change = fmt.Sprintf("%d%%", pct)
			changeStyle = theme.WarningText
		}
	}

	elapsed := fmt.Sprintf("%dms", s.ProcessingTimeMs)
	if s.ProcessingTimeMs >= 1000 {
		elapsed = fmt.Sprintf("%.2fs", float64(s.ProcessingTimeMs)/1000.0)
	}

	lines := []string{
		theme.Title.Render("TOKEN ANALYSIS"),
		fmt.Sprintf("%-12s%s %d", "Original:", theme.MutedText.Render(origBar), s.OriginalTokens),
		fmt.Sprintf("%-12s%s %d (%s)", "Optimized:", theme.SuccessText.Render(optBar),
			s.OptimizedTokens, changeStyle.Render(change)),
		"",
		theme.Title.Render("PERFORMANCE"),
		fmt.Sprintf("%-18s%s", "Processing time:", theme.SuccessText.Render(elapsed)),
		fmt.Sprintf("%-18s%d", "Rules applied:", len(s.RulesApplied)),
		fmt.Sprintf("%-18s%d", "Categories fixed:", s.CategoriesImproved),
	}
	if s.Provider != "" {
		lines = append(lines, "",
			theme.Title.Render("PROVIDER"),
			fmt.Sprintf("%-18s%s", "Service:", s.Provider),
			fmt.Sprintf("%-18s%s", "Model:", theme.MutedText.Render(runewidth.Truncate(s.Model, 50, "..."))),
		)
	}
	if len(lines) > height-3 && height > 3 {
		lines = lines[:height-3]
	}

	box := theme.Box.Width(m.width - 2)
	title := theme.Title.Render(fmt.Sprintf(" %s Optimization Results ", icons.Chart))
	return lipgloss.JoinVertical(lipgloss.Left, title, box.Render(strings.Join(lines, "\n")))
}

func tokenBar(value, maxValue, width int) string {
	filled := value * width / maxValue
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderProgressPanel fills the lower panel before stats are available.
func (m *Model) renderProgressPanel(height int) string {
	theme := CurrentTheme()
	icons := Icons()

	var body string
	switch m.phase {
	case PhaseReady:
		body = theme.MutedText.Render(fmt.Sprintf("%s Ready to analyze", icons.Info))
	case PhaseAnalyzing:
		body = fmt.Sprintf("%s Analyzing prompt...", theme.Title.Render(spinnerChars[m.spinnerFrame]))
	case PhaseAnalysisDone:
		if m.offline {
			body = theme.SuccessText.Render(fmt.Sprintf("%s Analysis complete", icons.Check)) + "\n" +
				theme.MutedText.Render("Run without --offline to optimize with LLM")
		} else {
			body = theme.SuccessText.Render(fmt.Sprintf("%s Analysis complete - ready to optimize", icons.Check))
		}
	case PhaseOptimizing:
		body = fmt.Sprintf("%s Optimizing with LLM...", theme.Title.Render(spinnerChars[m.spinnerFrame]))
	case PhaseDone:
		body = theme.SuccessText.Render(fmt.Sprintf("%s Optimization complete!", icons.Check))
	case PhaseError:
		body = theme.ErrorText.Render(fmt.Sprintf("%s Error occurred", icons.Cross))
	}

	box := theme.Box.Width(m.width - 2).Height(max(1, height-3))
	title := theme.Title.Render(fmt.Sprintf(" %s Status ", icons.Gear))
	return lipgloss.JoinVertical(lipgloss.Left, title, box.Render(body))
}

func (m *Model) renderDiffView() string {
	theme := CurrentTheme()
	icons := Icons()

	header := m.renderHeaderCompact()
	status := m.renderDiffStatusBar()

	if m.optimizedPrompt == "" {
		body := theme.MutedText.Render("No optimization results yet")
		return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
	}

	m.resizeViewports()
	left, right := m.diffPanes()
	m.diffLeft.SetContent(left)
	m.diffRight.SetContent(right)
	m.diffLeft.SetYOffset(m.scrollOffset)
	m.diffRight.SetYOffset(m.scrollOffset)

	paneWidth := m.width/2 - 2
	leftTitle := theme.MutedText.Render(fmt.Sprintf(" %s Original ", icons.File))
	rightTitle := theme.SuccessText.Render(fmt.Sprintf(" %s Optimized ", icons.Sparkles))

	box := theme.Box.Width(paneWidth)
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, leftTitle, box.Render(m.diffLeft.View())),
		lipgloss.JoinVertical(lipgloss.Left, rightTitle, box.Render(m.diffRight.View())),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, columns, status)
}

// diffPanes renders the before/after columns from one shared line diff so
// unchanged lines stay aligned.
func (m *Model) diffPanes() (left, right string) {
	theme := CurrentTheme()

	var lb, rb strings.Builder
	for _, dl := range diffLines(m.originalPrompt, m.optimizedPrompt) {
		switch dl.op {
		case diffDelete:
			lb.WriteString(theme.DiffRemoved.Render("- " + dl.text))
			lb.WriteByte('\n')
		case diffInsert:
			rb.WriteString(theme.DiffAdded.Render("+ " + dl.text))
			rb.WriteByte('\n')
		default:
			lb.WriteString(theme.DiffUnchanged.Render("  " + dl.text))
			lb.WriteByte('\n')
			rb.WriteString(theme.DiffUnchanged.Render("  " + dl.text))
			rb.WriteByte('\n')
		}
	}
	return lb.String(), rb.String()
}

func (m *Model) resizeViewports() {
	paneWidth := max(10, m.width/2-4)
	paneHeight := max(3, m.height-8)
	m.diffLeft.Width = paneWidth
	m.diffLeft.Height = paneHeight
	m.diffRight.Width = paneWidth
	m.diffRight.Height = paneHeight
}

func (m *Model) renderHelpView() string {
	theme := CurrentTheme()

	header := m.renderHeaderCompact()
	status := keyHints([][2]string{{"Esc", "return"}, {"q", "quit"}}, "")

	section := func(name string) string { return theme.Title.Render(name) }
	entry := func(key, desc string) string {
		return fmt.Sprintf("  %s%s", theme.Key.Render(fmt.Sprintf("%-11s", key)), desc)
	}

	body := strings.Join([]string{
		section("NAVIGATION"),
		entry("↑/↓", "Move selection up/down"),
		entry("Enter", "Expand/collapse category"),
		entry("PgUp/PgDn", "Scroll content"),
		entry("Home", "Go to top"),
		"",
		section("VIEWS"),
		entry("d", "Toggle diff view"),
		entry("?", "Toggle help (this screen)"),
		entry("Esc", "Return to main view"),
		"",
		section("ACTIONS"),
		entry("c", "Copy optimized prompt to clipboard"),
		entry("s", "Save optimized prompt to file"),
		entry("e", "Open optimized prompt in $EDITOR"),
		"",
		section("GENERAL"),
		entry("q", "Quit application"),
		entry("Ctrl+C", "Quit application"),
	}, "\n")

	box := theme.Box.Width(m.width - 2)
	title := theme.Title.Render(" Keyboard Shortcuts ")
	return lipgloss.JoinVertical(lipgloss.Left, header, title, box.Render(body), status)
}

func (m *Model) renderMinimal() string {
	theme := CurrentTheme()
	icons := Icons()

	var line string
	switch m.phase {
	case PhaseReady:
		line = fmt.Sprintf("%s popt - Ready", theme.Title.Render(icons.Lightning))
	case PhaseAnalyzing:
		line = fmt.Sprintf("%s Analyzing...", theme.Title.Render(icons.Gear))
	case PhaseAnalysisDone:
		line = theme.SuccessText.Render(fmt.Sprintf("%s %d issues found", icons.Check, m.tree.TotalIssues()))
	case PhaseOptimizing:
		line = fmt.Sprintf("%s Optimizing...", theme.Title.Render(icons.Gear))
	case PhaseDone:
		tokens := ""
		if m.stats != nil {
			tokens = fmt.Sprintf(" %d → %d tokens", m.stats.OriginalTokens, m.stats.OptimizedTokens)
		}
		line = theme.SuccessText.Render(fmt.Sprintf("%s Done%s", icons.Check, tokens))
	case PhaseError:
		line = theme.ErrorText.Render(fmt.Sprintf("%s Error occurred", icons.Cross))
	}

	status := keyHints([][2]string{{"q", "quit"}}, m.statusMessage)
	return line + "\n" + status
}

func (m *Model) renderStatusBar() string {
	toggleLabel := "toggle"
	if expanded, ok := m.selectedCategoryExpanded(); ok {
		if expanded {
			toggleLabel = "collapse"
		} else {
			toggleLabel = "expand"
		}
	}

	hints := [][2]string{{"↑↓", "nav"}, {"Enter", toggleLabel}}
	if m.HasResults() {
		hints = append(hints, [2]string{"d", "diff"}, [2]string{"c", "copy"}, [2]string{"s", "save"})
	}
	hints = append(hints, [2]string{"?", "help"}, [2]string{"q", "quit"})
	return keyHints(hints, m.statusMessage)
}

func (m *Model) renderDiffStatusBar() string {
	hints := [][2]string{
		{"Esc", "return"}, {"↑↓", "scroll"}, {"c", "copy"}, {"s", "save"}, {"e", "edit"}, {"q", "quit"},
	}
	return keyHints(hints, m.statusMessage)
}

// keyHints formats "key:action" pairs plus an optional status message.
func keyHints(pairs [][2]string, status string) string {
	theme := CurrentTheme()

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, theme.Key.Render(p[0])+theme.MutedText.Render(":"+p[1]))
	}
	line := strings.Join(parts, "  ")

	if status != "" {
		style := theme.Text
		switch {
		case strings.HasPrefix(status, "✓"):
			style = theme.SuccessText
		case strings.HasPrefix(status, "✗"):
			style = theme.ErrorText
		}
		line += "    " + style.Render(status)
	}
	return line
}

func (m *Model) renderErrorModal() string {
	theme := CurrentTheme()

	lines := []string{theme.ErrorText.Render(m.errState.Message), ""}
	if m.errState.Details != "" {
		lines = append(lines, theme.MutedText.Render(m.errState.Details), "")
	}
	lines = append(lines, theme.MutedText.Render("Press Enter to continue"))

	boxWidth := min(m.width*3/5, m.width-4)
	modal := theme.ErrorBox.Width(boxWidth).Render(
		theme.ErrorText.Render(" Error ") + "\n\n" + strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) renderSuggestModal() string {
	theme := CurrentTheme()

	title := theme.WarningText.Render(
		fmt.Sprintf(" ⚠ Vague Prompt Detected (%s) ", strings.Join(m.suggestM.TriggerIssues, ", ")))

	lines := []string{
		"This prompt lacks specific guidance. Claude works best",
		"with explicit instructions. Select improvements to add:",
		"",
	}
	for i := range m.suggestM.Suggestions {
		s := &m.suggestM.Suggestions[i]
		checkbox := "[ ]"
		if m.suggestM.Selections[i] {
			checkbox = "[✓]"
		}
		cursor := "  "
		row := fmt.Sprintf("%s%s %s", cursor, checkbox, s.Label)
		if i == m.suggestM.Cursor {
			row = theme.Title.Render(fmt.Sprintf("▸ %s %s", checkbox, s.Label))
		}
		lines = append(lines, row, theme.MutedText.Render("      "+s.Description))
	}

	lines = append(lines, "",
		keyHints([][2]string{
			{"↑/↓", "navigate"}, {"Space", "toggle"}, {"a", "all"}, {"n", "none"},
			{"Enter", "apply"}, {"Esc", "skip"},
		}, ""))
	if n := m.suggestM.SelectedCount(); n > 0 {
		lines = append(lines, theme.SuccessText.Render(fmt.Sprintf("  %d improvement(s) selected", n)))
	}

	boxWidth := min(m.width*4/5, m.width-4)
	modal := theme.WarningBox.Width(boxWidth).Render(title + "\n\n" + strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
