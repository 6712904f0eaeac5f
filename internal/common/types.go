package common

import (
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Severity represents how serious a finding is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Category groups rules by the aspect of the prompt they inspect.
type Category string

const (
	CategoryExplicitness Category = "EXP"
	CategoryStyle        Category = "STY"
	CategoryTools        Category = "TUL"
	CategoryFormatting   Category = "FMT"
	CategoryVerbosity    Category = "VRB"
	CategoryAgentic      Category = "AGT"
	CategoryLongHorizon  Category = "LHT"
	CategoryFrontend     Category = "FED"
)

// Issue is a single finding produced by the rule engine for a prompt.
type Issue struct {
	RuleID     string   `yaml:"rule_id" json:"rule_id"`
	Category   Category `yaml:"category" json:"category"`
	Severity   Severity `yaml:"severity" json:"severity"`
	Message    string   `yaml:"message" json:"message"`
	Line       int      `yaml:"line,omitempty" json:"line,omitempty"`
	Suggestion string   `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// String methods for Severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses string to Severity
func ParseSeverity(str string) Severity {
	switch strings.ToUpper(str) {
	case "ERROR":
		return SeverityError
	case "WARN", "WARNING":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// MarshalYAML serializes the severity as its name rather than a number.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses a severity name.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	*s = ParseSeverity(value.Value)
	return nil
}

// MarshalJSON serializes the severity as its name rather than a number.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	*s = ParseSeverity(strings.Trim(string(data), `"`))
	return nil
}

// DisplayName returns the human-readable name shown in tree headers.
func (c Category) DisplayName() string {
	switch c {
	case CategoryExplicitness:
		return "Explicitness"
	case CategoryStyle:
		return "Style"
	case CategoryTools:
		return "Tool Usage"
	case CategoryFormatting:
		return "Formatting"
	case CategoryVerbosity:
		return "Verbosity"
	case CategoryAgentic:
		return "Agentic Coding"
	case CategoryLongHorizon:
		return "Long-Horizon"
	case CategoryFrontend:
		return "Frontend Design"
	default:
		return string(c)
	}
}

// ParseCategory resolves user-supplied category names and prefixes.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(s) {
	case "explicitness", "exp":
		return CategoryExplicitness, true
	case "style", "sty":
		return CategoryStyle, true
	case "tools", "tool", "tul":
		return CategoryTools, true
	case "formatting", "format", "fmt":
		return CategoryFormatting, true
	case "verbosity", "vrb":
		return CategoryVerbosity, true
	case "agentic", "agt":
		return CategoryAgentic, true
	case "long_horizon", "longhorizon", "horizon", "lht":
		return CategoryLongHorizon, true
	case "frontend", "design", "fed":
		return CategoryFrontend, true
	default:
		return "", false
	}
}

// AllCategories returns categories in their canonical display order.
func AllCategories() []Category {
	return []Category{
		CategoryExplicitness,
		CategoryStyle,
		CategoryTools,
		CategoryFormatting,
		CategoryVerbosity,
		CategoryAgentic,
		CategoryLongHorizon,
		CategoryFrontend,
	}
}

// CategoryOf extracts the category from a rule ID such as "EXP005".
func CategoryOf(ruleID string) Category {
	if len(ruleID) < 3 {
		return Category(ruleID)
	}
	return Category(ruleID[:3])
}
