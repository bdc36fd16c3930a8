// Package staticanalysis detects structural bug patterns in Python snippets.
package staticanalysis

import "github.com/akashdevbuilds/lumina-ai-debugger/pkg/pysrc"

// Severity levels for issues.
const (
	SevLow      = "low"
	SevMedium   = "medium"
	SevHigh     = "high"
	SevCritical = "critical"
)

// SeverityRank returns a numeric rank for the given severity level:
// low=1, medium=2, high=3, critical=4. Unknown values return 0.
func SeverityRank(sev string) int {
	switch sev {
	case SevLow:
		return 1
	case SevMedium:
		return 2
	case SevHigh:
		return 3
	case SevCritical:
		return 4
	default:
		return 0
	}
}

// Issue types emitted by the pattern detector.
const (
	IssuePotentialIndexError = "potential_index_error"
	IssueMissingDocstring    = "missing_docstring"
	IssueLongFunction        = "long_function"
	IssueEmptyPrint          = "empty_print"
	IssueEvalUsage           = "eval_usage"
	IssueBareExcept          = "bare_except"
)

// Complexity classifications.
const (
	ComplexityLow      = "low"
	ComplexityModerate = "moderate"
	ComplexityHigh     = "high"
	ComplexityVeryHigh = "very_high"
)

// Issue is a single detected bug pattern, security risk, or style concern.
// Issues are ordered by pre-order tree discovery and never deduplicated.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
	Pattern  string `json:"pattern"`
}

// FunctionInfo records a function definition found by the detector.
type FunctionInfo struct {
	Name         string `json:"name"`
	Line         int    `json:"line"`
	ArgCount     int    `json:"arg_count"`
	HasDocstring bool   `json:"has_docstring"`
}

// ComplexityInfo holds the cyclomatic complexity of one function.
type ComplexityInfo struct {
	Name           string `json:"name"`
	Complexity     int    `json:"complexity"`
	Classification string `json:"classification"`
}

// Metrics holds line-level and count metrics derived from the source text.
type Metrics struct {
	TotalLines    int `json:"total_lines"`
	NonEmptyLines int `json:"non_empty_lines"`
	CommentLines  int `json:"comment_lines"`
	FunctionCount int `json:"function_count"`
	IssuesFound   int `json:"issues_found"`
}

// VariableSummary tracks name definition and use by textual identity only;
// there is no scope resolution, so a name defined in one function and used in
// another counts as used. Slices are sorted for deterministic output.
type VariableSummary struct {
	Defined           []string `json:"defined"`
	Used              []string `json:"used"`
	PotentiallyUnused []string `json:"potentially_unused"`
}

// StaticReport is the full result of analyzing one snippet without running
// it. When SyntaxValid is false, only SyntaxError and Metrics are populated.
// Reports are immutable after EnhancedAnalyzeCode returns.
type StaticReport struct {
	SyntaxValid bool               `json:"syntax_valid"`
	SyntaxError *pysrc.SyntaxError `json:"syntax_error,omitempty"`
	Issues      []Issue            `json:"issues"`
	Functions   []FunctionInfo     `json:"functions"`
	Complexity  []ComplexityInfo   `json:"complexity"`
	Metrics     Metrics            `json:"metrics"`
	Variables   VariableSummary    `json:"variables"`
}
