package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oyilmaz/popt/internal/common"
)

// Compiled patterns shared by the category checks.
var (
	vagueInstruction = regexp.MustCompile(`(?i)^(create|build|make|write|implement|design|develop|add|fix|update)\s+(a\s+|an\s+|the\s+)?[\w\s]{1,20}$`)
	indirectCommand  = regexp.MustCompile(`(?i)\b(can you|could you|would you|would you mind|is it possible to|i was wondering if)\b`)
	bareProhibition  = regexp.MustCompile(`(?i)^(always|never|don't|do not)\s+\w+[^.]*\.?$`)
	complexTaskVerbs = regexp.MustCompile(`(?i)\b(research|analyze|investigate|explore|evaluate|review|implement|build|create)\s+(the|a|an)?\s*\w+`)
	numberedCriteria = regexp.MustCompile(`\d+\s*(steps?|items?|points?)`)

	roleAssignment = regexp.MustCompile(`(?i)^\s*you\s+are\s+(a|an|the)\b`)
	openEndedScope = regexp.MustCompile(`(?i)\b(help\s+(users?|people|anyone)\s+with\s+(anything|any)|answer\s+(any|all)\s+questions|assist\s+with\s+(anything|any\s+\w+)|whatever\s+(they|the\s+user)\s+need)`)

	negativeInstruction = regexp.MustCompile(`(?i)\b(don't|do not|never|avoid|stop|no\s+\w+ing)\b`)
	instructionalCaps   = regexp.MustCompile(`\b(DON'?T|DONT|NEVER|ALWAYS|MUST|IMPORTANT|CRUCIAL|REMEMBER|NOTE|WARNING|CAUTION|CRITICAL|ESSENTIAL|REQUIRED|MANDATORY|ABSOLUTELY|DEFINITELY|CERTAINLY|ENSURE|VERY|STOP|AVOID)\b`)
	multiExclaim        = regexp.MustCompile(`!{2,}`)
	thinkWord           = regexp.MustCompile(`(?i)\b(think|thinking|think about|think through)\b`)
	emphaticTrigger     = regexp.MustCompile(`(?i)\b(critical|must|mandatory|required|essential|always|never|important)\b`)

	suggestionPhrase = regexp.MustCompile(`(?i)\b(suggest|recommend|what do you think|how would you|propose|advise)\b.*\b(changes?|improvements?|modifications?)\b`)
	multiFileOp      = regexp.MustCompile(`(?i)\b(all|every|each|multiple)\s+\w*\s*(files?|endpoints?|functions?|tests?)\b`)
	tempFileHint     = regexp.MustCompile(`(?i)\b(test|temp|temporary|helper|scratch|debug)\s*(script|file|code)\b`)

	complexOutputVerb = regexp.MustCompile(`(?i)\b(explain|describe|analyze|write|create|generate|produce)\b`)
	negativeFormat    = regexp.MustCompile(`(?i)\b(no|don't|do not|avoid|without)\s+(markdown|bullet|list|formatting|bold|italic)\b`)

	complexTask  = regexp.MustCompile(`(?i)\b(refactor|implement|build|create|develop|migrate)\b`)
	countedItems = regexp.MustCompile(`\b\d+\s*(files?|steps?|items?)\b`)

	codeModification = regexp.MustCompile(`(?i)\b(fix|update|change|modify|edit|refactor)\b.*\b(code|function|class|file|module)\b`)
	codeQuestion     = regexp.MustCompile(`(?i)\b(why|how|what)\b.*\b(code|function|bug|error|issue|failing)\b`)
	fullScopeImpl    = regexp.MustCompile(`(?i)\b(implement|build|create)\b.*\b(full|complete|entire|whole)\b`)
	openEndedSystem  = regexp.MustCompile(`(?i)\b(build|create|implement|design)\s+(a|an)\s+\w+\s+(system|solution|service)\b`)

	frontendIndicator = regexp.MustCompile(`(?i)\b(ui|frontend|page|component|dashboard|form|button|layout|design|css|html|react|vue|web)\b`)
	uiCreation        = regexp.MustCompile(`(?i)\b(create|build|make|design)\b.*\b(ui|page|component|form|dashboard)\b`)
)

func issue(ruleID string, sev common.Severity, message string) common.Issue {
	return common.Issue{
		RuleID:   ruleID,
		Category: common.CategoryOf(ruleID),
		Severity: sev,
		Message:  message,
	}
}

func issueAt(ruleID string, sev common.Severity, message string, line int) common.Issue {
	iss := issue(ruleID, sev, message)
	iss.Line = line
	return iss
}

func withSuggestion(iss common.Issue, suggestion string) common.Issue {
	iss.Suggestion = suggestion
	return iss
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// checkExplicitness covers EXP001-EXP006.
func checkExplicitness(prompt string) []common.Issue {
	var issues []common.Issue
	lines := strings.Split(prompt, "\n")

	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)

		// EXP001: short imperatives without detail
		if vagueInstruction.MatchString(trimmed) && len(strings.Fields(trimmed)) < 8 {
			issues = append(issues, withSuggestion(
				issueAt("EXP001", common.SeverityWarning,
					fmt.Sprintf("Vague instruction: %q", trimmed), idx+1),
				`Add specific details, features, and success criteria. For example: "Include as many relevant features as possible. Go beyond the basics to create a fully-featured implementation."`))
		}

		// EXP003: indirect commands
		if indirectCommand.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("EXP003", common.SeverityWarning,
					"Indirect command detected - the model may suggest rather than act", idx+1),
				`Use direct commands instead. Replace "Can you..." with imperative verbs.`))
		}

		// EXP002: bare prohibitions without motivation
		if bareProhibition.MatchString(trimmed) && len(strings.Fields(trimmed)) < 10 {
			hasContext := strings.Contains(trimmed, "because")
			if !hasContext && idx+1 < len(lines) {
				next := lines[idx+1]
				hasContext = containsAny(next, "because", "since", "so that")
			}
			if !hasContext {
				issues = append(issues, withSuggestion(
					issueAt("EXP002", common.SeverityInfo,
						"Prohibition without context or motivation", idx+1),
					"Add context explaining why this rule exists to help the model generalize."))
			}
		}
	}

	// EXP004: complex task without success criteria
	if complexTaskVerbs.MatchString(prompt) {
		hasCriteria := containsAny(prompt, "success", "complete when", "done when", "criteria") ||
			numberedCriteria.MatchString(prompt)
		if !hasCriteria && len(prompt) > 100 {
			issues = append(issues, withSuggestion(
				issue("EXP004", common.SeverityInfo,
					"Complex task may benefit from explicit success criteria"),
				"Define what constitutes successful completion of this task."))
		}
	}

	// EXP005: role-only prompt with no behavioral guidance
	if roleAssignment.MatchString(prompt) && len(strings.Fields(prompt)) < 25 &&
		!strings.Contains(prompt, "<") {
		issues = append(issues, withSuggestion(
			issueAt("EXP005", common.SeverityWarning,
				"Role-only prompt without behavioral specifications", 1),
			"Specify response format, citation requirements, and how to handle unknowns."))
	}

	// EXP006: open-ended scope with no boundaries
	if openEndedScope.MatchString(prompt) &&
		!containsAny(strings.ToLower(prompt), "scope", "in-scope", "out of scope", "limited to", "only ") {
		issues = append(issues, withSuggestion(
			issue("EXP006", common.SeverityWarning,
				"Open-ended prompt without scope boundaries"),
			"Define in-scope and out-of-scope topics, expertise level, and interaction style."))
	}

	return issues
}

// checkStyle covers STY001-STY004.
func checkStyle(prompt string) []common.Issue {
	var issues []common.Issue
	lines := strings.Split(prompt, "\n")

	for idx, line := range lines {
		// STY001: negative instructions
		if negativeInstruction.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("STY001", common.SeverityWarning,
					"Negative instruction detected", idx+1),
				`Reframe as positive guidance. Instead of "Don't use X", try "Use Y instead" or explain what to do.`))
		}

		// STY002: instructional ALL CAPS and stacked exclamation marks
		if caps := instructionalCaps.FindAllString(line, -1); len(caps) > 0 {
			issues = append(issues, withSuggestion(
				issueAt("STY002", common.SeverityInfo,
					fmt.Sprintf("Aggressive emphasis with ALL CAPS: %s", strings.Join(caps, ", ")), idx+1),
				"The model follows instructions precisely; aggressive emphasis may cause overtriggering. Use normal casing."))
		}
		if multiExclaim.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("STY002", common.SeverityInfo,
					"Multiple exclamation marks detected", idx+1),
				"Reduce emphasis; the model doesn't need emphatic punctuation."))
		}

		// STY003: the word "think" is sensitive without extended thinking
		if thinkWord.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("STY003", common.SeverityWarning,
					`Word "think" detected - sensitive when extended thinking is disabled`, idx+1),
				`Replace with alternatives: "consider", "evaluate", "reflect on", "work through".`))
		}
	}

	// STY004: too many emphatic triggers across the whole prompt
	if n := len(emphaticTrigger.FindAllString(prompt, -1)); n > 3 {
		issues = append(issues, withSuggestion(
			issue("STY004", common.SeverityInfo,
				fmt.Sprintf("Multiple emphatic triggers detected (%d instances) - may cause overtriggering", n)),
			`Dial back aggressive language. Simple instructions like "Use this tool when..." are sufficient.`))
	}

	return issues
}

// checkTools covers TUL001-TUL003.
func checkTools(prompt string) []common.Issue {
	var issues []common.Issue
	lines := strings.Split(prompt, "\n")

	for idx, line := range lines {
		// TUL001: asking for suggestions instead of action
		if suggestionPhrase.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("TUL001", common.SeverityWarning,
					"Request for suggestions may result in advice rather than action", idx+1),
				`If you want changes implemented, use direct language: "Make these changes" or "Implement improvements".`))
		}
	}

	// TUL002: bulk operations without parallel/sequential guidance
	if multiFileOp.MatchString(prompt) &&
		!containsAny(prompt, "parallel", "simultaneously", "sequential", "one at a time") {
		issues = append(issues, withSuggestion(
			issue("TUL002", common.SeverityInfo,
				"Multiple operations without parallel/sequential guidance"),
			`Consider adding: "If independent, process in parallel for efficiency."`))
	}

	// TUL003: temp artifacts without cleanup instructions
	if tempFileHint.MatchString(prompt) &&
		!containsAny(prompt, "clean up", "cleanup", "remove", "delete", "after") {
		issues = append(issues, withSuggestion(
			issue("TUL003", common.SeverityInfo,
				"Temporary file creation without cleanup instructions"),
			`Add: "Clean up any temporary files created during this process."`))
	}

	return issues
}

// checkFormatting covers FMT001-FMT003.
func checkFormatting(prompt string) []common.Issue {
	var issues []common.Issue
	lines := strings.Split(prompt, "\n")

	// FMT001: no output format specification
	if complexOutputVerb.MatchString(prompt) && len(prompt) > 50 {
		hasFormatSpec := containsAny(prompt,
			"format", "structure", "heading", "section", "bullet", "paragraph", "```", "<")
		if !hasFormatSpec {
			issues = append(issues, withSuggestion(
				issue("FMT001", common.SeverityInfo,
					"No explicit format specification for output"),
				"Specify desired output format explicitly (prose, markdown, code blocks, etc.)."))
		}
	}

	// FMT002: negative format instructions
	for idx, line := range lines {
		if negativeFormat.MatchString(line) {
			issues = append(issues, withSuggestion(
				issueAt("FMT002", common.SeverityWarning,
					"Negative format instruction detected", idx+1),
				`Reframe positively: instead of "no markdown", use "write in flowing prose paragraphs".`))
		}
	}

	// FMT003: long sectioned prompt with no XML structure
	hasMultipleSections := strings.Count(prompt, ":") > 3 && len(prompt) > 300
	hasXML := strings.Contains(prompt, "<") && strings.Contains(prompt, ">")
	if hasMultipleSections && !hasXML {
		issues = append(issues, withSuggestion(
			issue("FMT003", common.SeverityInfo,
				"Complex prompt may benefit from XML tag organization"),
			"Consider using semantic XML tags to structure sections: <rules>, <examples>, <input>, <output_format>."))
	}

	return issues
}

// checkVerbosity covers VRB001-VRB002.
func checkVerbosity(prompt string) []common.Issue {
	var issues []common.Issue

	// VRB001: complex task without verbosity guidance
	if complexTask.MatchString(prompt) && len(prompt) > 100 &&
		!containsAny(prompt, "summary", "brief", "detailed", "verbose", "concise") {
		issues = append(issues, withSuggestion(
			issue("VRB001", common.SeverityInfo,
				"Complex task without verbosity guidance"),
			`The model tends toward efficiency. Add: "After completing, provide a brief summary of changes made."`))
	}

	// VRB002: multi-step task without progress reporting
	multiStep := containsAny(prompt, "multiple", "several", "all") || countedItems.MatchString(prompt)
	if multiStep && !containsAny(prompt, "progress", "update") {
		issues = append(issues, withSuggestion(
			issue("VRB002", common.SeverityInfo,
				"Multi-step task without progress reporting guidance"),
			`Consider adding: "Provide a quick update after each step."`))
	}

	return issues
}

// checkAgentic covers AGT001-AGT004.
func checkAgentic(prompt string) []common.Issue {
	var issues []common.Issue

	// AGT001: code modification without exploration directive
	if codeModification.MatchString(prompt) &&
		!containsAny(prompt, "read", "understand", "inspect", "review", "look at", "examine") {
		issues = append(issues, withSuggestion(
			issue("AGT001", common.SeverityWarning,
				"Code modification without exploration directive"),
			`Add: "First, read and understand the relevant files before making changes."`))
	}

	// AGT002: code question without hallucination prevention
	if codeQuestion.MatchString(prompt) &&
		!containsAny(prompt, "investigate", "inspect", "don't speculate", "do not speculate") {
		issues = append(issues, withSuggestion(
			issue("AGT002", common.SeverityWarning,
				"Code question without hallucination prevention"),
			`Add: "Investigate the relevant files before answering. Do not speculate about code you haven't read."`))
	}

	// AGT003: complex implementation without state tracking
	if fullScopeImpl.MatchString(prompt) &&
		!containsAny(prompt, "progress", "track", "git", "commit", "checkpoint") {
		issues = append(issues, withSuggestion(
			issue("AGT003", common.SeverityInfo,
				"Complex implementation without state management guidance"),
			`Add state tracking: "Track progress in a progress.txt file. Use git commits to checkpoint your work."`))
	}

	// AGT004: open-ended implementation invites overengineering
	if openEndedSystem.MatchString(prompt) &&
		!containsAny(prompt, "simple", "minimal", "don't over", "avoid over", "only what") {
		issues = append(issues, withSuggestion(
			issue("AGT004", common.SeverityInfo,
				"Open-ended implementation may lead to overengineering"),
			`Add: "Avoid over-engineering. Only implement what's directly needed."`))
	}

	return issues
}

// checkLongHorizon covers LHT001-LHT003.
func checkLongHorizon(prompt string) []common.Issue {
	var issues []common.Issue

	longTask := len(prompt) > 500 ||
		containsAny(prompt, "entire", "all the", "complete", "full")
	if !longTask {
		return issues
	}

	// LHT001: no persistence strategy
	if !containsAny(prompt, "save", "persist", "file", "git", "commit", "checkpoint") {
		issues = append(issues, withSuggestion(
			issue("LHT001", common.SeverityWarning,
				"Long task without state persistence strategy"),
			`Add: "If context runs low, save your progress and state before continuing."`))
	}

	// LHT002: no incremental guidance
	if !containsAny(prompt, "incremental", "one at a time", "step by step", "iteratively") {
		issues = append(issues, withSuggestion(
			issue("LHT002", common.SeverityInfo,
				"Large task scope without incremental progress guidance"),
			`Add: "Work incrementally, completing one component before moving to the next."`))
	}

	// LHT003: very long task without context awareness
	if len(prompt) > 800 &&
		!containsAny(prompt, "context", "budget", "token", "limit") {
		issues = append(issues, withSuggestion(
			issue("LHT003", common.SeverityInfo,
				"Extended task without context window awareness"),
			"Consider adding context awareness instructions for very long tasks."))
	}

	return issues
}

// checkFrontend covers FED001-FED002.
func checkFrontend(prompt string) []common.Issue {
	var issues []common.Issue

	if !frontendIndicator.MatchString(prompt) {
		return issues
	}

	creating := uiCreation.MatchString(prompt)

	// FED001: generic UI request without aesthetic guidance
	if creating && !containsAny(prompt,
		"aesthetic", "design", "style", "beautiful", "creative", "distinctive") {
		issues = append(issues, withSuggestion(
			issue("FED001", common.SeverityInfo,
				"UI request without aesthetic guidance may result in generic design"),
			`Add design guidance: "Create a distinctive, creative design. Avoid generic 'AI slop' aesthetics."`))
	}

	// FED002: missing typography/color/motion guidance
	if creating && !containsAny(prompt,
		"font", "typography", "color", "palette", "animation", "motion") {
		issues = append(issues, withSuggestion(
			issue("FED002", common.SeverityInfo,
				"Frontend request without specific design guidance"),
			"Consider specifying typography, color scheme, and motion preferences."))
	}

	return issues
}
