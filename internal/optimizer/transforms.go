package optimizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/oyilmaz/popt/internal/common"
)

// Static transforms fix a small set of mechanical issues without an API
// call. Anything needing a real rewrite goes through the provider.

var indirectPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^can you\s+`),
	regexp.MustCompile(`(?i)^could you\s+`),
	regexp.MustCompile(`(?i)^would you mind\s+`),
	regexp.MustCompile(`(?i)^is it possible to\s+`),
	regexp.MustCompile(`(?i)^i was wondering if you could\s+`),
	regexp.MustCompile(`(?i)^please\s+`),
}

var allCapsWord = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// Acronyms preserved by the emphasis transform.
var preservedAcronyms = map[string]bool{
	"API": true, "URL": true, "HTTP": true, "HTML": true, "CSS": true,
	"JSON": true, "XML": true, "SQL": true, "REST": true, "CLI": true,
	"UI": true, "UX": true, "AWS": true, "GCP": true, "ID": true,
}

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

var thinkReplacements = []replacement{
	{regexp.MustCompile(`(?i)\bthink about\b`), "consider"},
	{regexp.MustCompile(`(?i)\bthink through\b`), "work through"},
	{regexp.MustCompile(`(?i)\bI think\b`), "I believe"},
	{regexp.MustCompile(`(?i)\bthinking about\b`), "considering"},
	{regexp.MustCompile(`(?i)\bthinking\b`), "evaluating"},
	{regexp.MustCompile(`(?i)\bthink\b`), "consider"},
}

var overtriggerReplacements = []replacement{
	{regexp.MustCompile(`(?i)\bCRITICAL:\s*`), ""},
	{regexp.MustCompile(`(?i)\bIMPORTANT:\s*`), ""},
	{regexp.MustCompile(`(?i)\bYou MUST\b`), "You should"},
	{regexp.MustCompile(`(?i)\bMUST ALWAYS\b`), "should"},
	{regexp.MustCompile(`(?i)\bALWAYS MUST\b`), "should"},
	{regexp.MustCompile(`(?i)\bNEVER EVER\b`), "avoid"},
	{regexp.MustCompile(`!{2,}`), "!"},
	{regexp.MustCompile(`(?i)\bMANDATORY\b`), "required"},
	{regexp.MustCompile(`(?i)\bESSENTIAL\b`), "important"},
	{regexp.MustCompile(`(?i)\bCRUCIAL\b`), "important"},
}

// applyStaticTransform handles the rules that have a mechanical fix.
// Other rules pass through unchanged; they need the provider.
func applyStaticTransform(prompt string, iss common.Issue) (string, bool) {
	switch iss.RuleID {
	case "EXP003":
		return transformIndirectCommands(prompt)
	case "STY002":
		return transformAggressiveEmphasis(prompt)
	case "STY003":
		return transformThinkWord(prompt)
	case "STY004":
		return transformOvertriggering(prompt)
	default:
		return prompt, false
	}
}

func transformIndirectCommands(prompt string) (string, bool) {
	result := prompt
	for _, re := range indirectPrefixes {
		result = re.ReplaceAllString(result, "")
	}

	result = capitalizeFirst(result)
	return result, result != prompt
}

func transformAggressiveEmphasis(prompt string) (string, bool) {
	result := allCapsWord.ReplaceAllStringFunc(prompt, func(word string) string {
		if preservedAcronyms[word] {
			return word
		}
		return capitalizeFirst(strings.ToLower(word))
	})
	return result, result != prompt
}

func transformThinkWord(prompt string) (string, bool) {
	result := prompt
	for _, r := range thinkReplacements {
		result = r.pattern.ReplaceAllString(result, r.with)
	}
	return result, result != prompt
}

func transformOvertriggering(prompt string) (string, bool) {
	result := prompt
	for _, r := range overtriggerReplacements {
		result = r.pattern.ReplaceAllString(result, r.with)
	}
	return result, result != prompt
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsLower(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
		return s
	}
	return s
}
