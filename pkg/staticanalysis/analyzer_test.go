package staticanalysis

import (
	"reflect"
	"strings"
	"testing"
)

// issuesOfType filters a report's issues by type.
func issuesOfType(t *testing.T, report *StaticReport, typ string) []Issue {
	t.Helper()
	var out []Issue
	for _, is := range report.Issues {
		if is.Type == typ {
			out = append(out, is)
		}
	}
	return out
}

// =============================================================================
// Syntax Handling Tests
// =============================================================================

func TestAnalyzeCode_ValidSyntax(t *testing.T) {
	report := EnhancedAnalyzeCode("x = 1\nprint(x)\n")

	if !report.SyntaxValid {
		t.Fatalf("expected syntax_valid=true, got error %v", report.SyntaxError)
	}
	if report.SyntaxError != nil {
		t.Errorf("expected no syntax error, got %v", report.SyntaxError)
	}
}

func TestAnalyzeCode_InvalidSyntax(t *testing.T) {
	report := EnhancedAnalyzeCode("def f(:\n    pass\n")

	if report.SyntaxValid {
		t.Fatal("expected syntax_valid=false")
	}
	if report.SyntaxError == nil {
		t.Fatal("expected a populated syntax error")
	}
	// Lists stay empty, never nil, so JSON output is [] rather than null.
	if report.Issues == nil || len(report.Issues) != 0 {
		t.Errorf("expected empty issue list, got %v", report.Issues)
	}
	if report.Functions == nil || len(report.Functions) != 0 {
		t.Errorf("expected empty function list, got %v", report.Functions)
	}
	if report.Metrics.TotalLines == 0 {
		t.Error("expected metrics to be populated even on syntax error")
	}
}

// =============================================================================
// Pattern Detection Tests
// =============================================================================

func TestDetect_PotentialIndexError(t *testing.T) {
	source := `fruits = ["apple", "banana", "cherry"]
for i in range(len(fruits) + 1):
    print(fruits[i])
`
	report := EnhancedAnalyzeCode(source)

	hits := issuesOfType(t, report, IssuePotentialIndexError)
	if len(hits) != 1 {
		t.Fatalf("expected 1 potential_index_error, got %d (%v)", len(hits), report.Issues)
	}
	if hits[0].Line != 2 {
		t.Errorf("expected issue on line 2, got %d", hits[0].Line)
	}
	if hits[0].Severity != SevHigh {
		t.Errorf("expected high severity, got %q", hits[0].Severity)
	}
	if !strings.Contains(hits[0].Pattern, "range(len(") {
		t.Errorf("expected pattern text to carry the loop source, got %q", hits[0].Pattern)
	}
}

func TestDetect_RangeLenWithoutOffsetIsClean(t *testing.T) {
	source := `items = [1, 2]
for i in range(len(items)):
    print(items[i])
`
	report := EnhancedAnalyzeCode(source)

	if hits := issuesOfType(t, report, IssuePotentialIndexError); len(hits) != 0 {
		t.Errorf("expected no index-error issues for in-bounds loop, got %v", hits)
	}
}

func TestDetect_EvalUsage(t *testing.T) {
	report := EnhancedAnalyzeCode("result = eval(\"1 + 2\")\n")

	hits := issuesOfType(t, report, IssueEvalUsage)
	if len(hits) != 1 {
		t.Fatalf("expected 1 eval_usage issue, got %v", report.Issues)
	}
	if hits[0].Severity != SevCritical {
		t.Errorf("expected critical severity, got %q", hits[0].Severity)
	}
}

func TestDetect_BareExcept(t *testing.T) {
	source := `try:
    risky()
except:
    pass
`
	report := EnhancedAnalyzeCode(source)

	hits := issuesOfType(t, report, IssueBareExcept)
	if len(hits) != 1 {
		t.Fatalf("expected 1 bare_except issue, got %v", report.Issues)
	}
	if hits[0].Severity != SevMedium {
		t.Errorf("expected medium severity, got %q", hits[0].Severity)
	}
	if hits[0].Line != 3 {
		t.Errorf("expected issue on line 3, got %d", hits[0].Line)
	}
}

func TestDetect_TypedExceptIsClean(t *testing.T) {
	source := `try:
    risky()
except ValueError:
    pass
`
	report := EnhancedAnalyzeCode(source)

	if hits := issuesOfType(t, report, IssueBareExcept); len(hits) != 0 {
		t.Errorf("expected no bare_except for typed handler, got %v", hits)
	}
}

func TestDetect_MissingDocstring(t *testing.T) {
	source := `def documented():
    """Does a thing."""
    return 1

def undocumented():
    return 2
`
	report := EnhancedAnalyzeCode(source)

	hits := issuesOfType(t, report, IssueMissingDocstring)
	if len(hits) != 1 {
		t.Fatalf("expected exactly 1 missing_docstring issue, got %v", report.Issues)
	}
	if hits[0].Line != 5 {
		t.Errorf("expected issue on line 5, got %d", hits[0].Line)
	}

	if len(report.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %v", report.Functions)
	}
	if !report.Functions[0].HasDocstring || report.Functions[1].HasDocstring {
		t.Errorf("docstring flags wrong: %v", report.Functions)
	}
}

func TestDetect_LongFunction(t *testing.T) {
	var b strings.Builder
	b.WriteString("def verbose():\n")
	for i := 0; i < 40; i++ {
		b.WriteString("    x = 1\n")
	}
	report := EnhancedAnalyzeCode(b.String())

	if hits := issuesOfType(t, report, IssueLongFunction); len(hits) != 1 {
		t.Fatalf("expected 1 long_function issue, got %v", report.Issues)
	}

	// A looser threshold keeps the same function quiet.
	relaxed := AnalyzeCode(b.String(), Options{LongFunctionLines: 100})
	if hits := issuesOfType(t, relaxed, IssueLongFunction); len(hits) != 0 {
		t.Errorf("expected no long_function at relaxed threshold, got %v", hits)
	}
}

func TestDetect_EmptyPrint(t *testing.T) {
	report := EnhancedAnalyzeCode("print()\nprint(\"ok\")\n")

	hits := issuesOfType(t, report, IssueEmptyPrint)
	if len(hits) != 1 {
		t.Fatalf("expected 1 empty_print issue, got %v", report.Issues)
	}
	if hits[0].Line != 1 {
		t.Errorf("expected issue on line 1, got %d", hits[0].Line)
	}
}

func TestAnalyzeCode_Idempotent(t *testing.T) {
	source := `def f():
    for i in range(len(xs) + 1):
        eval("x")
`
	first := EnhancedAnalyzeCode(source)
	second := EnhancedAnalyzeCode(source)

	if !reflect.DeepEqual(first, second) {
		t.Error("two analyses of identical source should be structurally identical")
	}
}

// =============================================================================
// Complexity Tests
// =============================================================================

func TestComplexity_StraightLineFunction(t *testing.T) {
	report := EnhancedAnalyzeCode("def simple():\n    return 1\n")

	if len(report.Complexity) != 1 {
		t.Fatalf("expected 1 complexity entry, got %v", report.Complexity)
	}
	c := report.Complexity[0]
	if c.Name != "simple" {
		t.Errorf("expected function name simple, got %q", c.Name)
	}
	if c.Complexity != 1 {
		t.Errorf("expected complexity 1, got %d", c.Complexity)
	}
	if c.Classification != ComplexityLow {
		t.Errorf("expected low classification, got %q", c.Classification)
	}
}

func TestComplexity_EmptyListWithoutFunctions(t *testing.T) {
	report := EnhancedAnalyzeCode("x = 1\nprint(x)\n")

	// Serializes as [] rather than null, matching Issues and Functions.
	if report.Complexity == nil {
		t.Fatal("expected an empty complexity list, got nil")
	}
	if len(report.Complexity) != 0 {
		t.Errorf("expected no complexity entries, got %v", report.Complexity)
	}

	invalid := EnhancedAnalyzeCode("def f(:\n    pass\n")
	if invalid.Complexity == nil {
		t.Error("expected an empty complexity list on syntax error, got nil")
	}
}

func TestComplexity_BranchesIncrease(t *testing.T) {
	source := `def branchy(x):
    if x > 0:
        return 1
    elif x < 0:
        return -1
    for i in range(x):
        if i % 2 == 0:
            continue
    return 0
`
	report := EnhancedAnalyzeCode(source)

	if len(report.Complexity) != 1 {
		t.Fatalf("expected 1 complexity entry, got %v", report.Complexity)
	}
	if report.Complexity[0].Complexity <= 1 {
		t.Errorf("expected complexity above 1, got %d", report.Complexity[0].Complexity)
	}
}

// =============================================================================
// Metrics and Variable Tests
// =============================================================================

func TestMetrics_Counts(t *testing.T) {
	source := "# header comment\nx = 1\n\ny = 2\n"
	report := EnhancedAnalyzeCode(source)

	m := report.Metrics
	// Splitting on "\n" counts the trailing newline as one blank line.
	if m.TotalLines != 5 {
		t.Errorf("expected 5 total lines, got %d", m.TotalLines)
	}
	if m.NonEmptyLines != 3 {
		t.Errorf("expected 3 non-empty lines, got %d", m.NonEmptyLines)
	}
	if m.CommentLines != 1 {
		t.Errorf("expected 1 comment line, got %d", m.CommentLines)
	}
	if m.IssuesFound != len(report.Issues) {
		t.Errorf("issues_found %d disagrees with issue list length %d", m.IssuesFound, len(report.Issues))
	}
}

func TestVariables_UnusedDetection(t *testing.T) {
	source := "used = 1\nunused = 2\nprint(used)\n"
	report := EnhancedAnalyzeCode(source)

	v := report.Variables
	if !containsString(v.Defined, "used") || !containsString(v.Defined, "unused") {
		t.Fatalf("expected both names defined, got %v", v.Defined)
	}
	if !containsString(v.PotentiallyUnused, "unused") {
		t.Errorf("expected unused to be flagged, got %v", v.PotentiallyUnused)
	}
	if containsString(v.PotentiallyUnused, "used") {
		t.Errorf("used should not be flagged, got %v", v.PotentiallyUnused)
	}
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
